package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "eventreg/pkg/platform/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS registration_audit (
	id            UUID PRIMARY KEY,
	timestamp     TIMESTAMPTZ NOT NULL,
	action        TEXT NOT NULL,
	email         TEXT NOT NULL,
	event_key     TEXT NOT NULL,
	kind          TEXT NOT NULL DEFAULT '',
	target_status TEXT NOT NULL DEFAULT '',
	request_id    TEXT NOT NULL DEFAULT '',
	actor_email   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS registration_audit_email_idx ON registration_audit (lower(email), timestamp);
`

// Migrate creates the audit table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate registration_audit: %w", err)
	}
	return nil
}

// Store implements audit.Store on the registration_audit table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts event under a fresh id.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO registration_audit (
			id, timestamp, action, email, event_key,
			kind, target_status, request_id, actor_email
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		event.Timestamp,
		string(event.Action),
		event.Email,
		event.EventKey,
		event.Kind,
		event.TargetStatus,
		event.RequestID,
		event.ActorEmail,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT timestamp, action, email, event_key,
		   kind, target_status, request_id, actor_email
	FROM registration_audit
`

// ListByEmail returns events for email, oldest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE lower(email) = lower($1)
		ORDER BY timestamp ASC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the limit most recent events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event  audit.Event
			action string
		)
		err := rows.Scan(
			&event.Timestamp,
			&action,
			&event.Email,
			&event.EventKey,
			&event.Kind,
			&event.TargetStatus,
			&event.RequestID,
			&event.ActorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
