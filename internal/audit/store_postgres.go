package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairtrace/pkg/domain"
)

// PostgresStore persists audit events for deployments that outlive the
// process. The table is append-only; there is no update or delete path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the audit table when it does not exist yet. Kept here
// instead of a migration tool because the schema is a single table.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS audit_events (
			id         UUID PRIMARY KEY,
			store      TEXT NOT NULL,
			action     TEXT NOT NULL,
			actor      TEXT NOT NULL,
			subject    TEXT NOT NULL,
			height     BIGINT NOT NULL,
			at         TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject, at);
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("audit: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	const query = `
		INSERT INTO audit_events (id, store, action, actor, subject, height, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		event.ID,
		event.Store,
		event.Action,
		string(event.Actor),
		event.Subject,
		int64(event.Height),
		event.At,
	)
	if err != nil {
		return fmt.Errorf("audit: append event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	const query = `
		SELECT id, store, action, actor, subject, height, at
		FROM audit_events
		WHERE subject = $1
		ORDER BY at ASC
	`
	rows, err := s.pool.Query(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("audit: list by subject: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event  Event
			actor  string
			height int64
		)
		if err := rows.Scan(&event.ID, &event.Store, &event.Action, &actor, &event.Subject, &height, &event.At); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		event.Actor = domain.Identity(actor)
		event.Height = uint64(height)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate events: %w", err)
	}
	return events, nil
}
