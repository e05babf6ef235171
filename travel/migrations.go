package travel

import (
	"github.com/xy-planning-network/wayfarer/postgres"
	"gorm.io/gorm"
)

// Migrations creates the tables a Service queries.
func Migrations() []postgres.Migration {
	return []postgres.Migration{
		{Key: "20240301-create-users", Executor: exec(createUsers)},
		{Key: "20240301-create-trips", Executor: exec(createTrips)},
	}
}

func exec(sql string) func(*gorm.DB) error {
	return func(tx *gorm.DB) error { return tx.Exec(sql).Error }
}

const createUsers = `
CREATE TABLE users (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	access_state text NOT NULL DEFAULT 'granted',
	email text NOT NULL,
	external_id uuid NOT NULL,
	name text NOT NULL DEFAULT '',
	password bytea
);
CREATE UNIQUE INDEX idx_users_email ON users (email);
CREATE UNIQUE INDEX idx_users_external_id ON users (external_id);
CREATE INDEX idx_users_deleted_at ON users (deleted_at);`

const createTrips = `
CREATE TABLE trips (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	user_id bigint NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	destination text NOT NULL,
	country text NOT NULL DEFAULT '',
	latitude double precision NOT NULL DEFAULT 0,
	longitude double precision NOT NULL DEFAULT 0,
	start_date date NOT NULL,
	end_date date,
	notes text NOT NULL DEFAULT '',
	CONSTRAINT trips_dates CHECK (end_date IS NULL OR end_date >= start_date),
	CONSTRAINT trips_latitude CHECK (latitude BETWEEN -90 AND 90),
	CONSTRAINT trips_longitude CHECK (longitude BETWEEN -180 AND 180)
);
CREATE INDEX idx_trips_user_id ON trips (user_id);
CREATE INDEX idx_trips_deleted_at ON trips (deleted_at);`
