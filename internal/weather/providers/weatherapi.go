package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/irrigation-predictor/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements weather.Provider on the WeatherAPI.com forecast endpoint.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		httpCfg: newHTTPConfig(client, "https://api.weatherapi.com/v1/forecast.json", opts),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// RainForecast sums hourly precip_mm for the 48 hours starting at the current hour.
func (p *WeatherAPIProvider) RainForecast(ctx context.Context, loc weather.Location) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
		values.Set("days", "3")
		values.Set("aqi", "no")
		values.Set("alerts", "no")

		u := fmt.Sprintf("%s?%s", p.httpCfg.BaseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast *struct {
			ForecastDay []struct {
				Hour []struct {
					TimeEpoch int64   `json:"time_epoch"`
					PrecipMm  float64 `json:"precip_mm"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("weatherapi: decode forecast: %w", err)
	}
	if payload.Forecast == nil {
		return 0, fmt.Errorf("weatherapi: %w: forecast", errMissingField)
	}

	start := p.httpCfg.Now().UTC().Truncate(time.Hour)
	hours := int(weather.RainWindow / time.Hour)

	var values []float64
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			if time.Unix(h.TimeEpoch, 0).Before(start) {
				continue
			}
			values = append(values, h.PrecipMm)
		}
	}

	return weather.SumWindow(values, hours), nil
}
