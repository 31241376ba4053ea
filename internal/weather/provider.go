package weather

import (
	"context"
)

// Provider abstracts a rainfall forecast source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
//
// RainForecast returns the millimetres of rain expected over RainWindow. Implementations
// perform at most one upstream call and report every failure as an error.
type Provider interface {
	Name() string
	RainForecast(ctx context.Context, loc Location) (float64, error)
}
