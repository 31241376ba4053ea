package irrigation

import (
	"encoding/json"
	"time"
)

// Decision is the outcome for one reading. It is built once and never mutated.
type Decision struct {
	ID          string
	Irrigate    bool
	WaterLitres float64
	RainNext48h float64
}

type decisionPayload struct {
	Irrigate    int     `json:"irrigate"`
	WaterLitres float64 `json:"water_litres"`
	RainNext48h float64 `json:"rain_next_48h"`
}

// MarshalJSON renders the wire form consumed by controllers: irrigate is 0 or 1.
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionPayload{
		Irrigate:    boolToInt(d.Irrigate),
		WaterLitres: d.WaterLitres,
		RainNext48h: d.RainNext48h,
	})
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	var p decisionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Decision{
		Irrigate:    p.Irrigate != 0,
		WaterLitres: p.WaterLitres,
		RainNext48h: p.RainNext48h,
	}
	return nil
}

// Record is the logged form of a decision: the reading as received plus the outcome.
type Record struct {
	ID         int64  `json:"id,omitempty"`
	DecisionID string `json:"decision_id"`
	UserID     int64  `json:"user_id"`

	SoilMoisture    *float64 `json:"soil_moisture"`
	SoilTemp        *float64 `json:"soil_temp"`
	SoilPH          *float64 `json:"soil_ph"`
	TankLevel       *float64 `json:"tank_level"`
	AmbientHumidity *float64 `json:"ambient_humidity"`
	AmbientTemp     *float64 `json:"ambient_temp"`
	Timestamp       string   `json:"timestamp"`

	Irrigate    int     `json:"irrigate"`
	WaterLitres float64 `json:"water_litres"`
	RainNext48h float64 `json:"rain_next_48h"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRecord combines a reading and its decision.
func NewRecord(r Reading, d Decision, createdAt time.Time) Record {
	return Record{
		DecisionID:      d.ID,
		UserID:          r.UserID,
		SoilMoisture:    r.SoilMoisture,
		SoilTemp:        r.SoilTemp,
		SoilPH:          r.SoilPH,
		TankLevel:       r.TankLevel,
		AmbientHumidity: r.AmbientHumidity,
		AmbientTemp:     r.AmbientTemp,
		Timestamp:       r.Timestamp,
		Irrigate:        boolToInt(d.Irrigate),
		WaterLitres:     d.WaterLitres,
		RainNext48h:     d.RainNext48h,
		CreatedAt:       createdAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
