package decisionlog

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

// InfluxMeasurement is the measurement decisions are written under.
const InfluxMeasurement = "irrigation_decision"

// pointWriter is satisfied by api.WriteAPIBlocking.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxSink writes each decision as a time-series point.
type InfluxSink struct {
	writer pointWriter
	close  func()
}

// NewInfluxSink connects a blocking write API for org/bucket.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(url, token)
	return &InfluxSink{
		writer: client.WriteAPIBlocking(org, bucket),
		close:  client.Close,
	}
}

func (s *InfluxSink) Name() string {
	return "influx"
}

func (s *InfluxSink) Record(ctx context.Context, rec irrigation.Record) error {
	return s.writer.WritePoint(ctx, influxPoint(rec))
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	if s.close != nil {
		s.close()
	}
}

func influxPoint(rec irrigation.Record) *write.Point {
	tags := map[string]string{
		"user_id": strconv.FormatInt(rec.UserID, 10),
	}

	fields := map[string]interface{}{
		"irrigate":      rec.Irrigate,
		"water_litres":  rec.WaterLitres,
		"rain_next_48h": rec.RainNext48h,
	}
	optional := map[string]*float64{
		"soil_moisture":    rec.SoilMoisture,
		"soil_temp":        rec.SoilTemp,
		"soil_ph":          rec.SoilPH,
		"tank_level":       rec.TankLevel,
		"ambient_humidity": rec.AmbientHumidity,
		"ambient_temp":     rec.AmbientTemp,
	}
	for name, v := range optional {
		if v != nil {
			fields[name] = *v
		}
	}
	if rec.DecisionID != "" {
		fields["decision_id"] = rec.DecisionID
	}

	t := rec.CreatedAt
	if t.IsZero() {
		t = time.Now()
	}
	return influxdb2.NewPoint(InfluxMeasurement, tags, fields, t)
}
