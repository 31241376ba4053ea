package irrigation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/irrigation-predictor/internal/weather"
)

type fixedForecaster struct {
	rain float64
	loc  weather.Location
}

func (f *fixedForecaster) RainNext48h(_ context.Context, loc weather.Location) float64 {
	f.loc = loc
	return f.rain
}

type recordingClassifier struct {
	answer bool
	seen   []FeatureVector
}

func (c *recordingClassifier) Predict(v FeatureVector) bool {
	c.seen = append(c.seen, v)
	return c.answer
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []Record
}

func (r *memoryRecorder) Record(_ context.Context, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

var (
	testLoc = weather.Location{Lat: 21.1458, Lon: 79.0882}
	testNow = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
)

func newTestService(rain float64, answer bool) (*Service, *fixedForecaster, *recordingClassifier, *memoryRecorder) {
	f := &fixedForecaster{rain: rain}
	c := &recordingClassifier{answer: answer}
	r := &memoryRecorder{}
	svc := NewService(f, c, r, testLoc,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return "decision-1" }),
	)
	return svc, f, c, r
}

func TestDecidePositive(t *testing.T) {
	svc, f, c, rec := newTestService(6, true)

	d := svc.Decide(context.Background(), Reading{SoilMoisture: ptr(20), TankLevel: ptr(100)})

	want := Decision{ID: "decision-1", Irrigate: true, WaterLitres: 10, RainNext48h: 6}
	if d != want {
		t.Fatalf("Decide() = %+v, want %+v", d, want)
	}
	if f.loc != testLoc {
		t.Errorf("forecast location = %+v, want %+v", f.loc, testLoc)
	}
	if len(c.seen) != 1 {
		t.Fatalf("classifier called %d times, want 1", len(c.seen))
	}
	if got := c.seen[0]; got.RainNext48h != 6 || got.SoilPH != DefaultSoilPH {
		t.Errorf("classifier saw %+v", got)
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d records, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.DecisionID != "decision-1" || r.Irrigate != 1 || r.WaterLitres != 10 || r.RainNext48h != 6 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.UserID != DefaultUserID {
		t.Errorf("UserID = %d, want %d", r.UserID, DefaultUserID)
	}
	if r.Timestamp != "2026-10-19T08:30:00Z" {
		t.Errorf("Timestamp = %q, want server-assigned time", r.Timestamp)
	}
	if r.SoilPH != nil {
		t.Errorf("SoilPH = %v, want nil (not sent by device)", *r.SoilPH)
	}
}

func TestDecideNegativeHasNoWater(t *testing.T) {
	svc, _, _, rec := newTestService(0, false)

	d := svc.Decide(context.Background(), Reading{SoilMoisture: ptr(5), TankLevel: ptr(100)})
	if d.Irrigate {
		t.Fatal("expected no irrigation")
	}
	if d.WaterLitres != 0 {
		t.Fatalf("WaterLitres = %v, want 0 when not irrigating", d.WaterLitres)
	}
	if rec.records[0].Irrigate != 0 {
		t.Errorf("record Irrigate = %d, want 0", rec.records[0].Irrigate)
	}
}

func TestDecideKeepsCallerTimestampAndUser(t *testing.T) {
	svc, _, _, rec := newTestService(0, true)

	svc.Decide(context.Background(), Reading{Timestamp: "2024-01-01 10:00", UserID: 7})
	r := rec.records[0]
	if r.Timestamp != "2024-01-01 10:00" || r.UserID != 7 {
		t.Fatalf("record = %+v, want caller timestamp and user", r)
	}
}

func TestDecideWithoutRecorder(t *testing.T) {
	svc := NewService(&fixedForecaster{}, &recordingClassifier{answer: true}, nil, testLoc, WithDefaultUserID(3))
	d := svc.Decide(context.Background(), Reading{SoilMoisture: ptr(20), TankLevel: ptr(15)})
	if d.WaterLitres != 15 {
		t.Fatalf("WaterLitres = %v, want 15", d.WaterLitres)
	}
	if d.ID == "" {
		t.Fatal("expected a generated decision id")
	}
}

func TestDecisionJSON(t *testing.T) {
	b, err := json.Marshal(Decision{ID: "x", Irrigate: true, WaterLitres: 12.5, RainNext48h: 1.2})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"irrigate":1,"water_litres":12.5,"rain_next_48h":1.2}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}

	var d Decision
	if err := json.Unmarshal([]byte(`{"irrigate":0,"water_litres":0,"rain_next_48h":11}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Irrigate || d.RainNext48h != 11 {
		t.Fatalf("Unmarshal = %+v", d)
	}
}
