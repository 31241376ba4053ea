package weather

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/i474232898/irrigation-predictor/internal/metrics"
)

// DefaultTimeout bounds a single forecast fetch.
const DefaultTimeout = 5 * time.Second

// Forecaster wraps a Provider and degrades every failure to "no rain expected".
type Forecaster struct {
	provider Provider
	timeout  time.Duration
}

// NewForecaster creates a Forecaster. A non-positive timeout falls back to DefaultTimeout.
func NewForecaster(provider Provider, timeout time.Duration) *Forecaster {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Forecaster{
		provider: provider,
		timeout:  timeout,
	}
}

// RainNext48h returns the rain expected at loc over the next 48 hours in millimetres.
// It never fails: network errors, timeouts, malformed payloads and an open circuit
// all yield 0.
func (f *Forecaster) RainNext48h(ctx context.Context, loc Location) (rain float64) {
	if f == nil || f.provider == nil {
		log.Printf("WARN: no forecast provider configured; assuming no rain for %s", loc.Key())
		return 0
	}

	name := f.provider.Name()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: forecast provider %s panicked for %s: %v", name, loc.Key(), r)
			metrics.ForecastFetchesTotal.WithLabelValues(name, "error").Inc()
			rain = 0
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	value, err := f.provider.RainForecast(ctx, loc)
	metrics.ForecastLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("WARN: forecast provider %s failed for %s; assuming no rain: %v", name, loc.Key(), err)
		metrics.ForecastFetchesTotal.WithLabelValues(name, "error").Inc()
		return 0
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		log.Printf("WARN: forecast provider %s returned invalid rainfall %v for %s; assuming no rain", name, value, loc.Key())
		metrics.ForecastFetchesTotal.WithLabelValues(name, "invalid").Inc()
		return 0
	}

	metrics.ForecastFetchesTotal.WithLabelValues(name, "ok").Inc()
	return value
}
