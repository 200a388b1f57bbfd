package labor

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/compliance"
	"fairtrace/internal/ledger"
	"fairtrace/internal/registry"
	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
)

const (
	admin    = domain.Identity("0xadmin")
	stranger = domain.Identity("0xstranger")
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *ledger.Counter
	service *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = ledger.NewCounter(50)
	recorder := audit.NewRecorder(audit.NewInMemoryStore(), slog.New(slog.DiscardHandler))
	s.service = NewService(
		authority.NewGate(admin),
		s.clock,
		registry.NewInMemory[string, Certification](),
		registry.NewInMemory[string, Standard](),
		compliance.NewLedger(),
		recorder,
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestCertificationLifecycle() {
	s.Run("register starts uncertified", func() {
		s.Require().NoError(s.service.Register(s.ctx, admin, "mill-1", "Delta Mills"))

		cert, err := s.service.Certification(s.ctx, "mill-1")
		s.Require().NoError(err)
		s.False(cert.Certified)
		s.Zero(cert.CertificationDate)
		s.Zero(cert.ExpirationDate)
	})

	s.Run("certify fixes absolute expiry relative to now", func() {
		s.Require().NoError(s.service.Certify(s.ctx, admin, "mill-1", "fair-labor", 100))

		cert, err := s.service.Certification(s.ctx, "mill-1")
		s.Require().NoError(err)
		s.True(cert.Certified)
		s.Equal("fair-labor", cert.CertificationType)
		s.Equal(uint64(50), cert.CertificationDate)
		s.Equal(uint64(150), cert.ExpirationDate)
	})

	s.Run("certify before register creates nothing", func() {
		err := s.service.Certify(s.ctx, admin, "ghost", "fair-labor", 100)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.False(s.service.IsValid(s.ctx, "ghost"))
	})
}

// TestValidityBoundary pins the strict less-than: a certification expiring at
// height E is valid for every height < E, and invalid at E and beyond.
func (s *ServiceSuite) TestValidityBoundary() {
	s.Require().NoError(s.service.Register(s.ctx, admin, "mill-1", "Delta Mills"))
	s.Require().NoError(s.service.Certify(s.ctx, admin, "mill-1", "fair-labor", 10)) // expires at 60

	s.Run("valid strictly before expiration", func() {
		s.True(s.service.IsValid(s.ctx, "mill-1")) // height 50
		s.clock.Advance(9)                         // height 59
		s.True(s.service.IsValid(s.ctx, "mill-1"))
	})

	s.Run("invalid at exactly the expiration height", func() {
		s.clock.Advance(1) // height 60 == expiration
		s.False(s.service.IsValid(s.ctx, "mill-1"))
	})

	s.Run("invalid beyond it", func() {
		s.clock.Advance(100)
		s.False(s.service.IsValid(s.ctx, "mill-1"))
	})

	s.Run("uncertified record is never valid", func() {
		s.Require().NoError(s.service.Register(s.ctx, admin, "mill-2", "Raw Goods Co"))
		s.False(s.service.IsValid(s.ctx, "mill-2"))
	})
}

func (s *ServiceSuite) TestComplianceSchedulesNextAudit() {
	evidence := domain.Hash{0x11}

	s.Require().NoError(s.service.Register(s.ctx, admin, "mill-1", "Delta Mills"))
	s.Require().NoError(s.service.AddStandard(s.ctx, admin, "living-wage", "Living Wage", "Pays at least the local living wage", 1500, 48))

	s.Require().NoError(s.service.RecordCompliance(s.ctx, admin, "mill-1", "living-wage", true, evidence, 200))

	rec, err := s.service.CheckCompliance(s.ctx, "mill-1", "living-wage")
	s.Require().NoError(err)
	s.True(rec.Compliant)
	s.Equal(evidence, rec.EvidenceHash)
	s.Equal(uint64(50), rec.VerificationDate)
	s.Equal(uint64(250), rec.NextAuditDate)

	s.Run("missing parents are rejected", func() {
		err := s.service.RecordCompliance(s.ctx, admin, "nobody", "living-wage", true, evidence, 200)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		err = s.service.RecordCompliance(s.ctx, admin, "mill-1", "nothing", true, evidence, 200)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestAuthorization() {
	s.True(dErrors.HasCode(s.service.Register(s.ctx, stranger, "m", "M"), dErrors.CodeNotAuthorized))
	s.True(dErrors.HasCode(s.service.Certify(s.ctx, stranger, "m", "t", 1), dErrors.CodeNotAuthorized))
	s.True(dErrors.HasCode(s.service.AddStandard(s.ctx, stranger, "std", "n", "d", 1, 1), dErrors.CodeNotAuthorized))
	s.True(dErrors.HasCode(s.service.RecordCompliance(s.ctx, stranger, "m", "std", true, domain.ZeroHash, 1), dErrors.CodeNotAuthorized))
	s.True(dErrors.HasCode(s.service.TransferAdmin(s.ctx, stranger, stranger), dErrors.CodeNotAuthorized))
}

func (s *ServiceSuite) TestAdminTransfer() {
	successor := domain.Identity("0xsuccessor")
	s.Require().NoError(s.service.TransferAdmin(s.ctx, admin, successor))

	s.True(dErrors.HasCode(s.service.Register(s.ctx, admin, "m1", "M1"), dErrors.CodeNotAuthorized))
	s.NoError(s.service.Register(s.ctx, successor, "m1", "M1"))
}
