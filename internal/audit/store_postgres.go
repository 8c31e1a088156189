package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id             BIGSERIAL PRIMARY KEY,
//	    kind           TEXT NOT NULL,
//	    occurred_at    TIMESTAMPTZ NOT NULL,
//	    request_id     TEXT NOT NULL DEFAULT '',
//	    actor          TEXT NOT NULL DEFAULT '',
//	    asset_id       TEXT NOT NULL DEFAULT '',
//	    total          BIGINT NOT NULL DEFAULT 0,
//	    founder_amount BIGINT NOT NULL DEFAULT 0,
//	    dao_amount     BIGINT NOT NULL DEFAULT 0,
//	    charity_amount BIGINT NOT NULL DEFAULT 0,
//	    detail         TEXT NOT NULL DEFAULT ''
//	);
//	CREATE INDEX audit_events_kind_idx ON audit_events (kind, occurred_at DESC);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events
			(kind, occurred_at, request_id, actor, asset_id, total, founder_amount, dao_amount, charity_amount, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(event.Kind),
		event.Timestamp,
		event.RequestID,
		event.Actor,
		event.AssetID,
		event.Total,
		event.FounderAmount,
		event.DaoAmount,
		event.CharityAmount,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByKind(ctx context.Context, kind Kind, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT kind, occurred_at, request_id, actor, asset_id, total, founder_amount, dao_amount, charity_amount, detail
		FROM audit_events
		WHERE kind = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var k string
		if err := rows.Scan(&k, &event.Timestamp, &event.RequestID, &event.Actor, &event.AssetID,
			&event.Total, &event.FounderAmount, &event.DaoAmount, &event.CharityAmount, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Kind = Kind(k)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
