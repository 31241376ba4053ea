package weather

import (
	"fmt"
	"time"
)

const (
	// RainWindow is the horizon the rainfall forecast covers.
	RainWindow = 48 * time.Hour

	// RainWindowBuckets is RainWindow expressed as 3-hour forecast buckets.
	RainWindowBuckets = 16
)

// Location is the field position forecasts are requested for.
type Location struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// Key returns a canonical string key for the location, used in logs.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}
