package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func weatherAPIBody(start time.Time, days int, mm float64) string {
	var dayParts []string
	for d := 0; d < days; d++ {
		var hours []string
		for h := 0; h < 24; h++ {
			ts := start.Add(time.Duration(d*24+h) * time.Hour)
			hours = append(hours, fmt.Sprintf(`{"time_epoch": %d, "precip_mm": %g}`, ts.Unix(), mm))
		}
		dayParts = append(dayParts, `{"hour":[`+strings.Join(hours, ",")+`]}`)
	}
	return `{"forecast":{"forecastday":[` + strings.Join(dayParts, ",") + `]}}`
}

func TestWeatherAPISumsNext48Hours(t *testing.T) {
	midnight := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now := midnight.Add(6 * time.Hour)

	srv := newTestServer(t, http.StatusOK, weatherAPIBody(midnight, 3, 0.25))
	p := NewWeatherAPIProvider(srv.Client(), "key", WithBaseURL(srv.URL), WithClock(func() time.Time { return now }))

	got, err := p.RainForecast(context.Background(), testLocation)
	if err != nil {
		t.Fatalf("RainForecast: %v", err)
	}
	if got != 12 {
		t.Fatalf("RainForecast() = %v, want 12", got)
	}
}

func TestWeatherAPIFailures(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"location":{}}`)
	p := NewWeatherAPIProvider(srv.Client(), "key", WithBaseURL(srv.URL))
	if _, err := p.RainForecast(context.Background(), testLocation); !errors.Is(err, errMissingField) {
		t.Fatalf("err = %v, want errMissingField", err)
	}

	p = NewWeatherAPIProvider(srv.Client(), "", WithBaseURL(srv.URL))
	if _, err := p.RainForecast(context.Background(), testLocation); !errors.Is(err, errMissingAPIKey) {
		t.Fatalf("err = %v, want errMissingAPIKey", err)
	}
}
