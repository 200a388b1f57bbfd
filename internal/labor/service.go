package labor

import (
	"context"
	"errors"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/compliance"
	"fairtrace/internal/ledger"
	"fairtrace/internal/registry"
	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
	"fairtrace/pkg/platform/sentinel"
)

const storeName = "labor"

// Service implements the labor certification store. It mirrors the supplier
// store's shape but adds time-bounded validity: certifications expire at an
// absolute height and compliance records carry a next-audit schedule.
type Service struct {
	gate           *authority.Gate
	clock          ledger.Clock
	certifications registry.Store[string, Certification]
	standards      registry.Store[string, Standard]
	compliance     *compliance.Ledger
	audit          *audit.Recorder
}

func NewService(
	gate *authority.Gate,
	clock ledger.Clock,
	certifications registry.Store[string, Certification],
	standards registry.Store[string, Standard],
	ledgerC *compliance.Ledger,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		gate:           gate,
		clock:          clock,
		certifications: certifications,
		standards:      standards,
		compliance:     ledgerC,
		audit:          recorder,
	}
}

// Register creates an uncertified record for an employer. Admin-gated,
// create-once.
func (s *Service) Register(ctx context.Context, caller domain.Identity, id, name string) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	record := Certification{Name: name, Certifier: caller}
	if err := s.certifications.Create(ctx, id, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "employer already registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "register", Actor: caller, Subject: id, Height: s.clock.Height()})
	return nil
}

// Certify promotes a registered employer. expirationBlocks is a delta
// relative to the current height; the absolute expiry is fixed at write time.
func (s *Service) Certify(ctx context.Context, caller domain.Identity, id, certificationType string, expirationBlocks uint64) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	now := s.clock.Height()
	err := s.certifications.Update(ctx, id, func(c Certification) Certification {
		c.Certified = true
		c.CertificationType = certificationType
		c.CertificationDate = now
		c.ExpirationDate = now + expirationBlocks
		c.Certifier = caller
		return c
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employer not registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "certify", Actor: caller, Subject: id, Height: now})
	return nil
}

// AddStandard registers a labor standard. Admin-gated, create-once.
func (s *Service) AddStandard(ctx context.Context, caller domain.Identity, id, name, description string, minimumWage, maxHoursPerWeek uint64) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	record := Standard{Name: name, Description: description, MinimumWage: minimumWage, MaxHoursPerWeek: maxHoursPerWeek}
	if err := s.standards.Create(ctx, id, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "standard already exists")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "add_standard", Actor: caller, Subject: id, Height: s.clock.Height()})
	return nil
}

// RecordCompliance upserts the latest audit outcome for an employer against
// a standard. nextAuditBlocks schedules the follow-up audit relative to now.
func (s *Service) RecordCompliance(ctx context.Context, caller domain.Identity, employerID, standardID string, compliant bool, evidence domain.Hash, nextAuditBlocks uint64) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if _, err := s.certifications.Find(ctx, employerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employer not registered")
		}
		return err
	}
	if _, err := s.standards.Find(ctx, standardID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "standard not found")
		}
		return err
	}
	now := s.clock.Height()
	record := compliance.Record{
		Compliant:        compliant,
		EvidenceHash:     evidence,
		VerificationDate: now,
		NextAuditDate:    now + nextAuditBlocks,
	}
	if err := s.compliance.Record(ctx, employerID, standardID, record); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "record_compliance", Actor: caller, Subject: employerID, Height: now})
	return nil
}

// CheckCompliance returns the latest record for the pair, zero when absent.
func (s *Service) CheckCompliance(ctx context.Context, employerID, standardID string) (compliance.Record, error) {
	return s.compliance.Check(ctx, employerID, standardID)
}

// Certification returns the record for id. Read-only, not gated.
func (s *Service) Certification(ctx context.Context, id string) (Certification, error) {
	cert, err := s.certifications.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Certification{}, dErrors.New(dErrors.CodeNotFound, "employer not registered")
		}
		return Certification{}, err
	}
	return cert, nil
}

// Standard returns the standard for id. Read-only, not gated.
func (s *Service) Standard(ctx context.Context, id string) (Standard, error) {
	std, err := s.standards.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Standard{}, dErrors.New(dErrors.CodeNotFound, "standard not found")
		}
		return Standard{}, err
	}
	return std, nil
}

// IsValid reports whether the certification exists, is certified, and has
// not reached its expiration height. Absence degrades to false.
func (s *Service) IsValid(ctx context.Context, id string) bool {
	cert, err := s.certifications.Find(ctx, id)
	if err != nil {
		return false
	}
	return cert.IsValid(s.clock.Height())
}

// TransferAdmin hands store administration to newAdmin.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin domain.Identity) error {
	if err := s.gate.Transfer(caller, newAdmin); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "transfer_admin", Actor: caller, Subject: string(newAdmin), Height: s.clock.Height()})
	return nil
}

// Certifications returns every employer certification keyed by employer id.
func (s *Service) Certifications(ctx context.Context) (map[string]Certification, error) {
	return registry.All(ctx, s.certifications)
}

// Standards returns every labor standard keyed by id.
func (s *Service) Standards(ctx context.Context) (map[string]Standard, error) {
	return registry.All(ctx, s.standards)
}
