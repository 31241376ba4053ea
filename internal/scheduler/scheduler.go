package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/irrigation-predictor/internal/metrics"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler periodically probes the decision store and publishes its health.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Pinger
	interval  time.Duration
	healthy   atomic.Bool
}

// New creates a new Scheduler.
func New(target Pinger, interval time.Duration) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
	}
	s.healthy.Store(true)
	return s
}

// Start schedules the probe and starts the underlying scheduler.
// The first probe runs immediately.
func (s *Scheduler) Start() error {
	if s.target == nil {
		log.Println("scheduler: no store configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	_, err := s.scheduler.Every(interval).Do(s.Probe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Probe pings the store once and records the result.
func (s *Scheduler) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.target.Ping(ctx)
	wasHealthy := s.healthy.Swap(err == nil)

	if err != nil {
		metrics.StoreUp.Set(0)
		if wasHealthy {
			log.Printf("WARN: scheduler: decision store unreachable: %v", err)
		}
		return
	}

	metrics.StoreUp.Set(1)
	if !wasHealthy {
		log.Println("INFO: scheduler: decision store reachable again")
	}
}

// StoreHealthy reports the result of the last probe.
func (s *Scheduler) StoreHealthy() bool {
	return s.healthy.Load()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
