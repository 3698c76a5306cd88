package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'profile_role') THEN
			CREATE TYPE profile_role AS ENUM ('citizen', 'picker', 'admin');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		role profile_role NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_profiles_email ON profiles (email);`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles (role);`,
	`CREATE TABLE IF NOT EXISTS citizens (
		id BIGSERIAL PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_citizens_email ON citizens (email);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES profiles(id),
		issue_type VARCHAR(64) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		photo_url TEXT,
		location VARCHAR(255) NOT NULL DEFAULT '',
		ward VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		picker_id UUID NOT NULL REFERENCES profiles(id),
		picker_name VARCHAR(255) NOT NULL,
		bin_id VARCHAR(128) NOT NULL,
		ward VARCHAR(64) NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT '',
		waste_type VARCHAR(32) NOT NULL,
		success BOOLEAN NOT NULL DEFAULT TRUE,
		idempotency_key VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_collections_idempotency_key ON collections (idempotency_key);`,
	`CREATE INDEX IF NOT EXISTS idx_collections_picker_id ON collections (picker_id);`,
	`CREATE INDEX IF NOT EXISTS idx_collections_created_at ON collections (created_at);`,
	`CREATE TABLE IF NOT EXISTS picker_daily_stats (
		picker_id UUID NOT NULL REFERENCES profiles(id),
		day DATE NOT NULL,
		bins_collected BIGINT NOT NULL DEFAULT 0,
		success_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (picker_id, day)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
