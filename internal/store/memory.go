package store

import (
	"context"
	"sync"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

// DefaultMemoryHistory is how many decisions the in-memory store keeps.
const DefaultMemoryHistory = 1000

// MemoryStore is a concurrency-safe in-memory decision store, used when no
// database is configured.
type MemoryStore struct {
	mu sync.RWMutex

	records []irrigation.Record
	nextID  int64

	// retention configuration
	maxHistory int
}

// NewMemoryStore creates a MemoryStore. If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
	}
}

// Insert appends a record, assigns it an id and enforces retention.
func (s *MemoryStore) Insert(_ context.Context, rec irrigation.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = s.nextID
	s.records = append(s.records, rec)

	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = s.records[over:]
	}
	return rec.ID, nil
}

// Latest returns the most recently inserted record.
func (s *MemoryStore) Latest(_ context.Context) (irrigation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return irrigation.Record{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// Len returns the number of retained records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
