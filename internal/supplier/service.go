package supplier

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

const storeName = "supplier"

// Service implements the supplier verification store: admin-gated
// registration and verification, ethical standards, and compliance records
// layered over the supplier and standard registries.
type Service struct {
	gate       *authority.Gate
	clock      ledger.Clock
	suppliers  registry.Store[string, Supplier]
	standards  registry.Store[string, Standard]
	compliance *compliance.Ledger
	audit      *audit.Recorder
}

func NewService(
	gate *authority.Gate,
	clock ledger.Clock,
	suppliers registry.Store[string, Supplier],
	standards registry.Store[string, Standard],
	ledgerC *compliance.Ledger,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		gate:       gate,
		clock:      clock,
		suppliers:  suppliers,
		standards:  standards,
		compliance: ledgerC,
		audit:      recorder,
	}
}

// Register creates an unverified supplier record. Admin-gated, create-once:
// a second register for the same id is rejected, never merged.
func (s *Service) Register(ctx context.Context, caller domain.Identity, id, name string) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	record := Supplier{Name: name, Verifier: caller}
	if err := s.suppliers.Create(ctx, id, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "supplier already registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "register", Actor: caller, Subject: id, Height: s.clock.Height()})
	return nil
}

// Verify promotes a registered supplier to verified with the given ethical
// score, stamping the current block height.
func (s *Service) Verify(ctx context.Context, caller domain.Identity, id string, score uint64) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	now := s.clock.Height()
	err := s.suppliers.Update(ctx, id, func(sup Supplier) Supplier {
		sup.Verified = true
		sup.EthicalScore = score
		sup.VerificationDate = now
		sup.Verifier = caller
		return sup
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "supplier not registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "verify", Actor: caller, Subject: id, Height: now})
	return nil
}

// AddStandard registers an ethical standard. Admin-gated, create-once.
func (s *Service) AddStandard(ctx context.Context, caller domain.Identity, id, name, description string, requiredScore uint64) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	record := Standard{Name: name, Description: description, RequiredScore: requiredScore}
	if err := s.standards.Create(ctx, id, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "standard already exists")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "add_standard", Actor: caller, Subject: id, Height: s.clock.Height()})
	return nil
}

// RecordCompliance upserts the latest audit outcome for a supplier against a
// standard. Both parents must exist; re-recording overwrites prior evidence.
func (s *Service) RecordCompliance(ctx context.Context, caller domain.Identity, supplierID, standardID string, compliant bool, evidence domain.Hash) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if _, err := s.suppliers.Find(ctx, supplierID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "supplier not registered")
		}
		return err
	}
	if _, err := s.standards.Find(ctx, standardID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "standard not found")
		}
		return err
	}
	record := compliance.Record{
		Compliant:        compliant,
		EvidenceHash:     evidence,
		VerificationDate: s.clock.Height(),
	}
	if err := s.compliance.Record(ctx, supplierID, standardID, record); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "record_compliance", Actor: caller, Subject: supplierID, Height: record.VerificationDate})
	return nil
}

// CheckCompliance returns the latest compliance record for the pair, or the
// zero record when none was recorded. Read-only, not gated.
func (s *Service) CheckCompliance(ctx context.Context, supplierID, standardID string) (compliance.Record, error) {
	return s.compliance.Check(ctx, supplierID, standardID)
}

// Supplier returns the record for id. Read-only, not gated.
func (s *Service) Supplier(ctx context.Context, id string) (Supplier, error) {
	sup, err := s.suppliers.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Supplier{}, dErrors.New(dErrors.CodeNotFound, "supplier not registered")
		}
		return Supplier{}, err
	}
	return sup, nil
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

// IsVerified reports whether the supplier exists and has been verified.
// Absence degrades to false, the fail-closed default for predicates.
func (s *Service) IsVerified(ctx context.Context, id string) bool {
	sup, err := s.suppliers.Find(ctx, id)
	if err != nil {
		return false
	}
	return sup.Verified
}

// TransferAdmin hands store administration to newAdmin.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin domain.Identity) error {
	if err := s.gate.Transfer(caller, newAdmin); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "transfer_admin", Actor: caller, Subject: string(newAdmin), Height: s.clock.Height()})
	return nil
}

// Suppliers returns every registered supplier keyed by id.
func (s *Service) Suppliers(ctx context.Context) (map[string]Supplier, error) {
	return registry.All(ctx, s.suppliers)
}

// Standards returns every ethical standard keyed by id.
func (s *Service) Standards(ctx context.Context) (map[string]Standard, error) {
	return registry.All(ctx, s.standards)
}
