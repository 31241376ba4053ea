package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/irrigation-predictor/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider implements weather.Provider on the Open-Meteo hourly forecast.
type OpenMeteoProvider struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		httpCfg: newHTTPConfig(client, "https://api.open-meteo.com/v1/forecast", opts),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// RainForecast sums hourly precipitation for the 48 hours starting at the current hour.
func (p *OpenMeteoProvider) RainForecast(ctx context.Context, loc weather.Location) (float64, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
		values.Set("hourly", "precipitation")
		values.Set("forecast_days", "3")
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", p.httpCfg.BaseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly *struct {
			Time          []string   `json:"time"`
			Precipitation []*float64 `json:"precipitation"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("openmeteo: decode forecast: %w", err)
	}
	if payload.Hourly == nil {
		return 0, fmt.Errorf("openmeteo: %w: hourly", errMissingField)
	}
	if len(payload.Hourly.Time) != len(payload.Hourly.Precipitation) {
		return 0, fmt.Errorf("openmeteo: hourly time and precipitation lengths differ (%d != %d)",
			len(payload.Hourly.Time), len(payload.Hourly.Precipitation))
	}

	start := p.httpCfg.Now().UTC().Truncate(time.Hour)
	hours := int(weather.RainWindow / time.Hour)

	values := make([]float64, 0, hours)
	for i, raw := range payload.Hourly.Time {
		ts, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			return 0, fmt.Errorf("openmeteo: parse hourly time %q: %w", raw, err)
		}
		if ts.Before(start) {
			continue
		}
		var mm float64
		if v := payload.Hourly.Precipitation[i]; v != nil {
			mm = *v
		}
		values = append(values, mm)
	}

	return weather.SumWindow(values, hours), nil
}
