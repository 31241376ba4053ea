package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLStore keeps decisions in a relational table.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQL connects, verifies the connection and runs migrations.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	s := NewSQLStore(db, driver)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func configureSQLite(ctx context.Context, db *sql.DB) error {
	// A single writer avoids SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// NewSQLStore wraps an open database. Call Migrate before use.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Insert writes one record and returns its id.
func (s *SQLStore) Insert(ctx context.Context, rec irrigation.Record) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO decisions (
			user_id, soil_moisture, soil_temp, soil_ph, tank_level, ambient_humidity, ambient_temp,
			timestamp, irrigate, water_litres, rain_next_48h, decision_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		rec.UserID,
		nullFloat(rec.SoilMoisture),
		nullFloat(rec.SoilTemp),
		nullFloat(rec.SoilPH),
		nullFloat(rec.TankLevel),
		nullFloat(rec.AmbientHumidity),
		nullFloat(rec.AmbientTemp),
		rec.Timestamp,
		rec.Irrigate,
		rec.WaterLitres,
		rec.RainNext48h,
		rec.DecisionID,
		createdAt.UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert decision: %w", err)
	}
	return id, nil
}

// Latest returns the most recently inserted record.
func (s *SQLStore) Latest(ctx context.Context) (irrigation.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, soil_moisture, soil_temp, soil_ph, tank_level, ambient_humidity, ambient_temp,
			timestamp, irrigate, water_litres, rain_next_48h, decision_id, created_at
		FROM decisions
		ORDER BY id DESC
		LIMIT 1`)

	var (
		rec                                    irrigation.Record
		moisture, soilTemp, ph, tank, hum, amb sql.NullFloat64
		timestamp                              sql.NullString
		createdAt                              string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &moisture, &soilTemp, &ph, &tank, &hum, &amb,
		&timestamp, &rec.Irrigate, &rec.WaterLitres, &rec.RainNext48h, &rec.DecisionID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return irrigation.Record{}, ErrNotFound
	}
	if err != nil {
		return irrigation.Record{}, fmt.Errorf("query latest decision: %w", err)
	}

	rec.SoilMoisture = floatPtr(moisture)
	rec.SoilTemp = floatPtr(soilTemp)
	rec.SoilPH = floatPtr(ph)
	rec.TankLevel = floatPtr(tank)
	rec.AmbientHumidity = floatPtr(hum)
	rec.AmbientTemp = floatPtr(amb)
	rec.Timestamp = timestamp.String
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// Ping verifies the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
