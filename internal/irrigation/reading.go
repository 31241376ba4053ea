package irrigation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reading is one sensor report as received from a field device. Sensor fields
// are nil when the device omitted them or sent something that is not a number.
type Reading struct {
	SoilMoisture    *float64 `json:"soil_moisture"`
	SoilTemp        *float64 `json:"soil_temp"`
	SoilPH          *float64 `json:"soil_ph"`
	TankLevel       *float64 `json:"tank_level"`
	AmbientHumidity *float64 `json:"ambient_humidity"`
	AmbientTemp     *float64 `json:"ambient_temp"`

	// Timestamp is kept verbatim; empty means the server assigns one.
	Timestamp string `json:"timestamp,omitempty"`

	// UserID is zero when the device did not identify a user.
	UserID int64 `json:"user_id,omitempty"`
}

// DecodeReading parses a JSON request body into a Reading. Field devices are
// never rejected: an empty or malformed body yields an empty Reading together
// with the decode error, which callers only log.
func DecodeReading(body []byte) (Reading, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Reading{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Reading{}, fmt.Errorf("decode reading: %w", err)
	}
	return ParseReading(raw), nil
}

// ParseReading coerces a loosely typed JSON object into a Reading. Numbers,
// numeric strings and booleans are accepted; NaN and infinities are not.
func ParseReading(raw map[string]any) Reading {
	return Reading{
		SoilMoisture:    coerceFloat(raw["soil_moisture"]),
		SoilTemp:        coerceFloat(raw["soil_temp"]),
		SoilPH:          coerceFloat(raw["soil_ph"]),
		TankLevel:       coerceFloat(raw["tank_level"]),
		AmbientHumidity: coerceFloat(raw["ambient_humidity"]),
		AmbientTemp:     coerceFloat(raw["ambient_temp"]),
		Timestamp:       coerceString(raw["timestamp"]),
		UserID:          coerceInt(raw["user_id"]),
	}
}

func coerceFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func coerceInt(v any) int64 {
	f := coerceFloat(v)
	if f == nil {
		return 0
	}
	return int64(*f)
}
