package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/irrigation-predictor/internal/common"
	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

var (
	// ErrNotFound is returned when no decision has been recorded yet.
	ErrNotFound = errors.New("no decision recorded")
)

// DecisionStore is the queryable decision log.
type DecisionStore interface {
	Insert(ctx context.Context, rec irrigation.Record) (int64, error)
	Latest(ctx context.Context) (irrigation.Record, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open picks a store for databaseURL:
//
//	""                         in-memory store
//	postgres://, postgresql:// Postgres (lib/pq)
//	sqlite://path, file:path   SQLite (modernc.org/sqlite)
//
// SQL stores are migrated before being returned.
func Open(ctx context.Context, databaseURL string) (DecisionStore, error) {
	switch {
	case databaseURL == "":
		return NewMemoryStore(DefaultMemoryHistory), nil
	case common.HasPrefixAny(databaseURL, "postgres://", "postgresql://"):
		return openSQL(ctx, DriverPostgres, databaseURL)
	case common.HasPrefixAny(databaseURL, "sqlite://"):
		return openSQL(ctx, DriverSQLite, strings.TrimPrefix(databaseURL, "sqlite://"))
	case common.HasPrefixAny(databaseURL, "file:"):
		return openSQL(ctx, DriverSQLite, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", redact(databaseURL))
	}
}

func openSQL(ctx context.Context, driver, dsn string) (DecisionStore, error) {
	s, err := OpenSQL(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}
	return "..."
}
