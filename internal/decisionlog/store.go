package decisionlog

import (
	"context"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

// inserter is the write side of store.DecisionStore.
type inserter interface {
	Insert(ctx context.Context, rec irrigation.Record) (int64, error)
}

// StoreSink writes records into the decision store.
type StoreSink struct {
	store inserter
}

func NewStoreSink(store inserter) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string {
	return "database"
}

func (s *StoreSink) Record(ctx context.Context, rec irrigation.Record) error {
	_, err := s.store.Insert(ctx, rec)
	return err
}
