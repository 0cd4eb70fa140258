// Package postgres wires the pgx connection pool and the schema the stores
// rely on.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the tables and indexes if needed. The unique index on
// (mother_year, mother_seq) is what turns a concurrent-creation race into a
// clean conflict instead of a silent duplicate.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS evidence_items (
	id UUID PRIMARY KEY,
	mother_year INT NOT NULL,
	mother_seq INT NOT NULL,
	registry_type TEXT NOT NULL,
	registry_number INT NOT NULL,
	registry_year INT NOT NULL,
	unit_id UUID NOT NULL,
	status TEXT NOT NULL,
	shelf_id UUID,
	case_number TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	received_from TEXT NOT NULL DEFAULT '',
	disposed_at TIMESTAMPTZ,
	disposal_reason TEXT NOT NULL DEFAULT '',
	disposal_approved_by TEXT NOT NULL DEFAULT '',
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_evidence_items_mother
	ON evidence_items(mother_year, mother_seq);
CREATE INDEX IF NOT EXISTS idx_evidence_items_registry
	ON evidence_items(unit_id, registry_type, registry_number);

CREATE TABLE IF NOT EXISTS renumber_events (
	id UUID PRIMARY KEY,
	item_id UUID NOT NULL REFERENCES evidence_items(id) ON DELETE CASCADE,
	year INT NOT NULL,
	red_ink_id INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renumber_events_item ON renumber_events(item_id);

CREATE TABLE IF NOT EXISTS shelves (
	id UUID PRIMARY KEY,
	unit_id UUID NOT NULL,
	name TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shelves_unit ON shelves(unit_id);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
