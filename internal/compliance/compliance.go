// Package compliance stores per-(subject, standard) audit outcomes shared by
// the supplier and labor stores. Records are keyed by a struct pair rather
// than a concatenated string so distinct pairs can never alias.
package compliance

import (
	"context"
	"errors"

	"fairtrace/internal/registry"
	"fairtrace/pkg/domain"
	"fairtrace/pkg/platform/sentinel"
)

// Key identifies one compliance record.
type Key struct {
	SubjectID  string
	StandardID string
}

// Record is the latest audit outcome for a (subject, standard) pair.
// Re-recording overwrites the prior record; no history is kept, only the
// most recent audit matters to validity checks.
type Record struct {
	Compliant        bool        `json:"compliant"`
	EvidenceHash     domain.Hash `json:"evidence_hash"`
	VerificationDate uint64      `json:"verification_date"`
	// NextAuditDate is set only by the labor store, which schedules
	// follow-up audits. Zero everywhere else.
	NextAuditDate uint64 `json:"next_audit_date,omitempty"`
}

// Ledger wraps the keyed store with the compliance read contract: absence is
// a zero-valued Record, never an error. Referential integrity against the
// subject and standard registries is the owning service's concern, enforced
// at write time; parents are never deleted so the check cannot go stale.
type Ledger struct {
	records registry.Store[Key, Record]
}

func NewLedger() *Ledger {
	return &Ledger{records: registry.NewInMemory[Key, Record]()}
}

// Record upserts the latest audit outcome for the pair.
func (l *Ledger) Record(ctx context.Context, subjectID, standardID string, rec Record) error {
	return l.records.Put(ctx, Key{SubjectID: subjectID, StandardID: standardID}, rec)
}

// Check returns the stored record, or the zero Record when the pair was
// never audited. A zero record is indistinguishable from a recorded
// non-compliance with zero fields; callers that need the distinction must
// consult the parent registries separately.
func (l *Ledger) Check(ctx context.Context, subjectID, standardID string) (Record, error) {
	rec, err := l.records.Find(ctx, Key{SubjectID: subjectID, StandardID: standardID})
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
