package common

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{20, 2, 20},
		{10.005, 1, 10},
		{3.14159, 2, 3.14},
		{2.675, 0, 3},
		{-1.234, 2, -1.23},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestHasPrefixAny(t *testing.T) {
	if !HasPrefixAny("postgres://localhost/db", "postgresql://", "postgres://") {
		t.Error("expected postgres prefix to match")
	}
	if HasPrefixAny("sqlite://data.db", "postgresql://", "postgres://") {
		t.Error("expected sqlite DSN not to match postgres prefixes")
	}
	if HasPrefixAny("anything") {
		t.Error("expected no match without prefixes")
	}
}
