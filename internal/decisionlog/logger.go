// Package decisionlog fans decision records out to one or more sinks.
// A failing sink never affects the others or the caller.
package decisionlog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
	"github.com/i474232898/irrigation-predictor/internal/metrics"
)

// DefaultSinkTimeout bounds a single sink write.
const DefaultSinkTimeout = 3 * time.Second

// Sink is one destination for decision records.
type Sink interface {
	Name() string
	Record(ctx context.Context, rec irrigation.Record) error
}

// Logger writes every record to all of its sinks, in order. Each write gets
// at most timeout; a sink still running after that is abandoned.
type Logger struct {
	sinks   []Sink
	timeout time.Duration
}

// New creates a Logger. Nil sinks are ignored.
func New(sinks ...Sink) *Logger {
	l := &Logger{timeout: DefaultSinkTimeout}
	for _, s := range sinks {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}
	return l
}

// WithTimeout sets the per-sink write deadline. Non-positive values keep the default.
func (l *Logger) WithTimeout(d time.Duration) *Logger {
	if d > 0 {
		l.timeout = d
	}
	return l
}

// Sinks returns the names of the configured sinks.
func (l *Logger) Sinks() []string {
	names := make([]string, 0, len(l.sinks))
	for _, s := range l.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Record implements irrigation.Recorder. Errors are logged and counted, never returned.
func (l *Logger) Record(ctx context.Context, rec irrigation.Record) {
	for _, s := range l.sinks {
		if err := l.recordWithTimeout(ctx, s, rec); err != nil {
			log.Printf("ERROR: decision log sink %s failed for decision %s: %v", s.Name(), rec.DecisionID, err)
			metrics.SinkFailuresTotal.WithLabelValues(s.Name()).Inc()
		}
	}
}

// recordWithTimeout runs one sink write in its own goroutine so a sink that
// ignores ctx still cannot hold the caller past the deadline.
func (l *Logger) recordWithTimeout(ctx context.Context, s Sink, rec irrigation.Record) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- safeRecord(ctx, s, rec)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("abandoned after %s: %w", l.timeout, ctx.Err())
	}
}

func safeRecord(ctx context.Context, s Sink, rec irrigation.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Record(ctx, rec)
}
