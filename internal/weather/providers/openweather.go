package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/irrigation-predictor/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements weather.Provider on the OpenWeatherMap 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		httpCfg: newHTTPConfig(client, "https://api.openweathermap.org/data/2.5/forecast", opts),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// RainForecast sums the rain volume of the first 16 three-hour buckets.
func (p *OpenWeatherProvider) RainForecast(ctx context.Context, loc weather.Location) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.httpCfg.BaseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		List *[]struct {
			Dt   int64 `json:"dt"`
			Rain *struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("openweather: decode forecast: %w", err)
	}
	if payload.List == nil {
		return 0, fmt.Errorf("openweather: %w: list", errMissingField)
	}

	buckets := make([]float64, 0, len(*payload.List))
	for _, item := range *payload.List {
		var mm float64
		if item.Rain != nil {
			mm = item.Rain.ThreeH
		}
		buckets = append(buckets, mm)
	}

	return weather.SumWindow(buckets, weather.RainWindowBuckets), nil
}
