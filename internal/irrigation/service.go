package irrigation

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/irrigation-predictor/internal/metrics"
	"github.com/i474232898/irrigation-predictor/internal/weather"
)

// DefaultUserID is recorded for readings that carry no user.
const DefaultUserID int64 = 1

// Forecaster supplies the rain expected over the next 48 hours. It must not fail.
type Forecaster interface {
	RainNext48h(ctx context.Context, loc weather.Location) float64
}

// Classifier is the pretrained irrigate / don't-irrigate model.
// Implementations are read-only and safe for concurrent use.
type Classifier interface {
	Predict(v FeatureVector) bool
}

// Recorder persists decisions on a best-effort basis.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}

// Service runs the decision pipeline for one reading at a time; it holds no
// per-request state and may be called concurrently.
type Service struct {
	forecaster    Forecaster
	classifier    Classifier
	recorder      Recorder
	location      weather.Location
	defaultUserID int64
	now           func() time.Time
	newID         func() string
}

// Option customises a Service.
type Option func(*Service)

// WithDefaultUserID sets the user recorded for anonymous readings.
func WithDefaultUserID(id int64) Option {
	return func(s *Service) {
		s.defaultUserID = id
	}
}

// WithClock overrides the clock used for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides how decision ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService wires the pipeline. recorder may be nil.
func NewService(forecaster Forecaster, classifier Classifier, recorder Recorder, loc weather.Location, opts ...Option) *Service {
	s := &Service{
		forecaster:    forecaster,
		classifier:    classifier,
		recorder:      recorder,
		location:      loc,
		defaultUserID: DefaultUserID,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide fetches the forecast, classifies the reading, sizes the water volume
// for positive decisions and logs the result.
func (s *Service) Decide(ctx context.Context, r Reading) Decision {
	now := s.now().UTC()
	if r.Timestamp == "" {
		r.Timestamp = now.Format(time.RFC3339)
	}
	if r.UserID == 0 {
		r.UserID = s.defaultUserID
	}

	rain := s.forecaster.RainNext48h(ctx, s.location)
	features := BuildFeatures(r, rain)
	irrigate := s.classifier.Predict(features)

	var litres float64
	if irrigate {
		litres = ComputeVolume(features.SoilMoisture, features.TankLevel, features.RainNext48h)
	}

	d := Decision{
		ID:          s.newID(),
		Irrigate:    irrigate,
		WaterLitres: litres,
		RainNext48h: rain,
	}

	log.Printf("INFO: decision %s user=%d irrigate=%t water=%.2fL rain48h=%.2fmm features=%+v",
		d.ID, r.UserID, d.Irrigate, d.WaterLitres, d.RainNext48h, features)

	if d.Irrigate {
		metrics.DecisionsTotal.WithLabelValues("1").Inc()
		metrics.WaterLitres.Observe(d.WaterLitres)
	} else {
		metrics.DecisionsTotal.WithLabelValues("0").Inc()
	}

	if s.recorder != nil {
		// Records are written even when the caller has already gone away.
		s.recorder.Record(context.WithoutCancel(ctx), NewRecord(r, d, now))
	}

	return d
}
