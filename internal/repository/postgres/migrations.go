package postgres

import (
	"database/sql"
	"log"
)

// RunMigrations executes database migrations. Statements are idempotent so
// they can run on every startup.
func RunMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Printf("Migrations completed")
	return nil
}

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		password_salt VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		privacy VARCHAR(12) NOT NULL DEFAULT 'PUBLIC',
		capacity INTEGER,
		host_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// The unique constraint is the authoritative guard against two
	// concurrent RSVP creates for the same (event, user).
	`CREATE TABLE IF NOT EXISTS rsvps (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(5) NOT NULL,
		plus_ones INTEGER NOT NULL DEFAULT 0 CHECK (plus_ones >= 0),
		is_approved BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		payment_link TEXT,
		amount NUMERIC(10,2),
		description VARCHAR(255),
		status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
		manually_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		confirmed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		confirmation_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Guards concurrent confirmations from the same user: at most one
	// manually confirmed payment per (event, user). Host link records carry
	// manually_confirmed = FALSE and stay exempt.
	`CREATE UNIQUE INDEX IF NOT EXISTS payments_event_user_confirmed_idx
		ON payments (event_id, user_id)
		WHERE manually_confirmed`,
	`DROP INDEX IF EXISTS payments_event_user_active_idx`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_id UUID REFERENCES events(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		action_link VARCHAR(255),
		action_text VARCHAR(50),
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS notifications_user_created_idx
		ON notifications (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS events_date_idx ON events (date)`,
}
