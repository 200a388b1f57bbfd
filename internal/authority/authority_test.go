package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
)

func TestGate(t *testing.T) {
	admin := domain.Identity("0xadmin")
	other := domain.Identity("0xother")

	t.Run("admin passes checks", func(t *testing.T) {
		g := NewGate(admin)
		assert.True(t, g.IsAdmin(admin))
		assert.NoError(t, g.Require(admin))
	})

	t.Run("non-admin is rejected with not_authorized", func(t *testing.T) {
		g := NewGate(admin)
		assert.False(t, g.IsAdmin(other))
		err := g.Require(other)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAuthorized))
	})

	t.Run("transfer swaps every capability", func(t *testing.T) {
		g := NewGate(admin)
		require.NoError(t, g.Transfer(admin, other))

		assert.True(t, g.IsAdmin(other))
		assert.NoError(t, g.Require(other))
		assert.False(t, g.IsAdmin(admin))
		assert.True(t, dErrors.HasCode(g.Require(admin), dErrors.CodeNotAuthorized))

		// The old admin cannot transfer back.
		err := g.Transfer(admin, admin)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAuthorized))
	})

	t.Run("transfer by non-admin leaves admin unchanged", func(t *testing.T) {
		g := NewGate(admin)
		err := g.Transfer(other, other)
		require.Error(t, err)
		assert.Equal(t, admin, g.Admin())
	})

	t.Run("transfer accepts any identity without validation", func(t *testing.T) {
		g := NewGate(admin)
		require.NoError(t, g.Transfer(admin, domain.Identity("")))
		assert.True(t, g.IsAdmin(domain.Identity("")))
	})
}
