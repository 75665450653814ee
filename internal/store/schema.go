package store

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// Note: the status-conditional field rules (budget only for converted visits,
// follow_up_at only for follow-ups, rejection_reason only for rejections) are
// enforced by the writer, not by constraints here. Out-of-band writes can
// violate them.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Visits
CREATE TABLE IF NOT EXISTS visits (
    id TEXT PRIMARY KEY,
    worker_name TEXT NOT NULL,
    worker_phone TEXT NOT NULL DEFAULT '',
    client_name TEXT NOT NULL,
    client_type TEXT NOT NULL DEFAULT '',
    client_phone TEXT NOT NULL DEFAULT '',
    client_email TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    landmark TEXT NOT NULL DEFAULT '',
    requirements TEXT NOT NULL DEFAULT '',
    budget NUMERIC NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK (status IN ('follow_up', 'converted', 'rejected')),
    follow_up_at TIMESTAMPTZ,
    rejection_reason TEXT NOT NULL DEFAULT '',
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    photo_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_visits_status ON visits(status);

-- Visit activity log (append-only)
CREATE TABLE IF NOT EXISTS visit_activities (
    id TEXT PRIMARY KEY,
    visit_id TEXT NOT NULL REFERENCES visits(id),
    action TEXT NOT NULL CHECK (action IN ('created', 'updated', 'status_changed', 'follow_up_added', 'assigned')),
    changed_field TEXT NOT NULL DEFAULT '',
    old_value TEXT NOT NULL DEFAULT '',
    new_value TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    actor_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_visit_activities_visit_id ON visit_activities(visit_id, created_at DESC);

-- User accounts
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('worker', 'admin')),
    mobile TEXT NOT NULL,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (email),
    UNIQUE (mobile)
);
`
