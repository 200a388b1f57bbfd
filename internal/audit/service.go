package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store persists audit events append-only. Events are never rewritten or
// deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

// Recorder captures structured audit events. Appends are best-effort: a
// failed audit write must not roll back the mutation that already committed,
// so failures are logged rather than propagated.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

func (r *Recorder) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"store", event.Store,
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

func (r *Recorder) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	return r.store.ListBySubject(ctx, subject)
}
