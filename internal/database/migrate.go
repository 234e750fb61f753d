package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id BIGSERIAL PRIMARY KEY,
		company_name TEXT NOT NULL,
		contact_person TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		company_type TEXT NOT NULL,
		services TEXT[] NOT NULL DEFAULT '{}',
		payment_plan TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status)`,
}

// Migrate creates the tables the application store needs. It is idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
