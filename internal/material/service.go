// Package material is the material tracking store. It is intentionally the
// thinnest instantiation of the registry pattern: batches are registered and
// certified, nothing more, until upstream sourcing data lands.
package material

import (
	"context"
	"errors"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/ledger"
	"fairtrace/internal/registry"
	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
	"fairtrace/pkg/platform/sentinel"
)

const storeName = "material"

// Batch is one tracked material lot.
type Batch struct {
	Name              string          `json:"name"`
	Origin            string          `json:"origin"`
	Certified         bool            `json:"certified"`
	CertificationDate uint64          `json:"certification_date"`
	Certifier         domain.Identity `json:"certifier"`
}

type Service struct {
	gate    *authority.Gate
	clock   ledger.Clock
	batches registry.Store[string, Batch]
	audit   *audit.Recorder
}

func NewService(gate *authority.Gate, clock ledger.Clock, batches registry.Store[string, Batch], recorder *audit.Recorder) *Service {
	return &Service{gate: gate, clock: clock, batches: batches, audit: recorder}
}

// Register creates an uncertified batch. Admin-gated, create-once.
func (s *Service) Register(ctx context.Context, caller domain.Identity, id, name, origin string) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	if err := s.batches.Create(ctx, id, Batch{Name: name, Origin: origin, Certifier: caller}); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "batch already registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "register", Actor: caller, Subject: id, Height: s.clock.Height()})
	return nil
}

// Certify marks a registered batch as certified at the current height.
func (s *Service) Certify(ctx context.Context, caller domain.Identity, id string) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	now := s.clock.Height()
	err := s.batches.Update(ctx, id, func(b Batch) Batch {
		b.Certified = true
		b.CertificationDate = now
		b.Certifier = caller
		return b
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "batch not registered")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "certify", Actor: caller, Subject: id, Height: now})
	return nil
}

// Batch returns the record for id. Read-only, not gated.
func (s *Service) Batch(ctx context.Context, id string) (Batch, error) {
	b, err := s.batches.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Batch{}, dErrors.New(dErrors.CodeNotFound, "batch not registered")
		}
		return Batch{}, err
	}
	return b, nil
}

// IsCertified degrades absence to false.
func (s *Service) IsCertified(ctx context.Context, id string) bool {
	b, err := s.batches.Find(ctx, id)
	if err != nil {
		return false
	}
	return b.Certified
}

// TransferAdmin hands store administration to newAdmin.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin domain.Identity) error {
	if err := s.gate.Transfer(caller, newAdmin); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "transfer_admin", Actor: caller, Subject: string(newAdmin), Height: s.clock.Height()})
	return nil
}

// Batches returns every registered batch keyed by id.
func (s *Service) Batches(ctx context.Context) (map[string]Batch, error) {
	return registry.All(ctx, s.batches)
}
