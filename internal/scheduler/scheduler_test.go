package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestProbeTracksHealth(t *testing.T) {
	p := &fakePinger{}
	s := New(p, time.Minute)

	s.Probe()
	if !s.StoreHealthy() {
		t.Fatal("expected healthy store")
	}

	p.fail.Store(true)
	s.Probe()
	if s.StoreHealthy() {
		t.Fatal("expected unhealthy store after failed ping")
	}

	p.fail.Store(false)
	s.Probe()
	if !s.StoreHealthy() {
		t.Fatal("expected store to recover")
	}
}

func TestStartRunsProbe(t *testing.T) {
	p := &fakePinger{}
	s := New(p, time.Hour)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("probe did not run on start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartWithoutTarget(t *testing.T) {
	s := New(nil, time.Second)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	if !s.StoreHealthy() {
		t.Fatal("no target should report healthy")
	}
}
