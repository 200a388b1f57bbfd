package authority

import (
	"sync"

	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
)

// Gate holds the single admin identity for one store and guards every
// mutating operation in it. Each store owns its own Gate instance so tests
// can run stores side by side without cross-contamination.
//
// Invariant: exactly one admin at any time. Transfer overwrites the admin
// unconditionally once the caller check passes; the new value is not
// validated against any identity registry, so a transfer to a mistyped
// identity is only recoverable by that identity transferring again.
type Gate struct {
	mu    sync.RWMutex
	admin domain.Identity
}

func NewGate(admin domain.Identity) *Gate {
	return &Gate{admin: admin}
}

// IsAdmin reports whether caller is the current admin.
func (g *Gate) IsAdmin(caller domain.Identity) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return caller == g.admin
}

// Require returns a coded error unless caller is the current admin.
func (g *Gate) Require(caller domain.Identity) error {
	if !g.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the store admin")
	}
	return nil
}

// Admin returns the current admin identity.
func (g *Gate) Admin() domain.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.admin
}

// Transfer hands the admin role to newAdmin. Only the current admin may
// transfer; there is no two-step handshake.
func (g *Gate) Transfer(caller, newAdmin domain.Identity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if caller != g.admin {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the store admin")
	}
	g.admin = newAdmin
	return nil
}
