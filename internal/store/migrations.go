package store

import (
	"context"
	"fmt"
	"log"
)

type migration struct {
	Version     int
	Description string
	Postgres    string
	SQLite      string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Decisions table",
		Postgres: `
CREATE TABLE IF NOT EXISTS decisions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL DEFAULT 1,
    soil_moisture DOUBLE PRECISION,
    soil_temp DOUBLE PRECISION,
    soil_ph DOUBLE PRECISION,
    tank_level DOUBLE PRECISION,
    ambient_humidity DOUBLE PRECISION,
    ambient_temp DOUBLE PRECISION,
    timestamp TEXT,
    irrigate SMALLINT NOT NULL,
    water_litres DOUBLE PRECISION NOT NULL,
    rain_next_48h DOUBLE PRECISION NOT NULL
);`,
		SQLite: `
CREATE TABLE IF NOT EXISTS decisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL DEFAULT 1,
    soil_moisture REAL,
    soil_temp REAL,
    soil_ph REAL,
    tank_level REAL,
    ambient_humidity REAL,
    ambient_temp REAL,
    timestamp TEXT,
    irrigate INTEGER NOT NULL,
    water_litres REAL NOT NULL,
    rain_next_48h REAL NOT NULL
);`,
	},
	{
		Version:     2,
		Description: "Decision ids and server receive time",
		Postgres: `
ALTER TABLE decisions ADD COLUMN IF NOT EXISTS decision_id TEXT NOT NULL DEFAULT '';
ALTER TABLE decisions ADD COLUMN IF NOT EXISTS created_at TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS idx_decisions_user ON decisions(user_id, id);`,
		SQLite: `
ALTER TABLE decisions ADD COLUMN decision_id TEXT NOT NULL DEFAULT '';
ALTER TABLE decisions ADD COLUMN created_at TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS idx_decisions_user ON decisions(user_id, id);`,
	},
}

// Migrate applies pending migrations, each in its own transaction.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		log.Printf("INFO: applied migration %d: %s", m.Version, m.Description)
	}
	return nil
}

func (s *SQLStore) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (s *SQLStore) applyMigration(ctx context.Context, m migration) error {
	stmt := m.SQLite
	if s.driver == DriverPostgres {
		stmt = m.Postgres
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind(`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`),
		m.Version, m.Description, nowUTC()); err != nil {
		return err
	}
	return tx.Commit()
}
