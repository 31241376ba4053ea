package decisionlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

// CSVHeader is the column order of the decision log file.
var CSVHeader = []string{
	"soil_moisture",
	"soil_temp",
	"soil_ph",
	"tank_level",
	"ambient_humidity",
	"ambient_temp",
	"timestamp",
	"irrigate",
	"water_litres",
	"rain_next_48h",
}

// CSVSink appends one row per decision to a local file. The header is
// written when the file is new or empty.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string {
	return "csv"
}

func (s *CSVSink) Record(_ context.Context, rec irrigation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(CSVHeader); err != nil {
			return err
		}
	}
	if err := w.Write(csvRow(rec)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func csvRow(rec irrigation.Record) []string {
	return []string{
		formatOptional(rec.SoilMoisture),
		formatOptional(rec.SoilTemp),
		formatOptional(rec.SoilPH),
		formatOptional(rec.TankLevel),
		formatOptional(rec.AmbientHumidity),
		formatOptional(rec.AmbientTemp),
		rec.Timestamp,
		strconv.Itoa(rec.Irrigate),
		formatFloat(rec.WaterLitres),
		formatFloat(rec.RainNext48h),
	}
}

// formatOptional renders absent values as an empty cell.
func formatOptional(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
