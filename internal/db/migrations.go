package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS btree_gist;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'service_category') THEN
			CREATE TYPE service_category AS ENUM ('HOTEL_ROOM', 'TRANSFER', 'VEHICLE_HIRE', 'GUIDE_SERVICE', 'ACTIVITY');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS service_offerings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		supplier_id UUID REFERENCES suppliers(id),
		category service_category NOT NULL,
		title VARCHAR(255) NOT NULL,
		max_occupancy INT,
		max_passengers INT,
		min_participants INT,
		max_participants INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_service_offerings_tenant ON service_offerings (tenant_id);`,
	`CREATE TABLE IF NOT EXISTS rate_seasons (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		seq BIGSERIAL NOT NULL,
		tenant_id UUID NOT NULL,
		offering_id UUID NOT NULL REFERENCES service_offerings(id),
		category service_category NOT NULL,
		sub_key VARCHAR(16) NOT NULL DEFAULT '',
		season_from DATE NOT NULL,
		season_to DATE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_rate_seasons_range CHECK (season_from <= season_to)
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ex_rate_seasons_active_overlap') THEN
			ALTER TABLE rate_seasons ADD CONSTRAINT ex_rate_seasons_active_overlap
				EXCLUDE USING gist (
					tenant_id WITH =,
					offering_id WITH =,
					sub_key WITH =,
					daterange(season_from, season_to, '[]') WITH &&
				) WHERE (is_active);
		END IF;
	END
	$$;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_rate_seasons_seq ON rate_seasons (seq);`,
	`CREATE INDEX IF NOT EXISTS idx_rate_seasons_lookup ON rate_seasons (tenant_id, offering_id, season_from, season_to) WHERE is_active;`,
	`CREATE TABLE IF NOT EXISTS exchange_rates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		from_currency VARCHAR(3) NOT NULL,
		to_currency VARCHAR(3) NOT NULL,
		rate NUMERIC(18,6) NOT NULL CHECK (rate > 0),
		rate_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_exchange_rates_pair ON exchange_rates (tenant_id, from_currency, to_currency, rate_date DESC, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS booking_rate_locks (
		tenant_id UUID NOT NULL,
		booking_id UUID NOT NULL,
		exchange_rate_id UUID NOT NULL REFERENCES exchange_rates(id),
		from_currency VARCHAR(3) NOT NULL,
		to_currency VARCHAR(3) NOT NULL,
		rate NUMERIC(18,6) NOT NULL,
		rate_date DATE NOT NULL,
		locked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (tenant_id, booking_id)
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
