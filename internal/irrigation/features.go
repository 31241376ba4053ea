package irrigation

// DefaultSoilPH is assumed when a reading carries no usable pH value.
const DefaultSoilPH = 7.0

// Feature names in the order the classifier was trained on.
const (
	FeatureSoilMoisture    = "soil_moisture"
	FeatureSoilTemp        = "soil_temp"
	FeatureSoilPH          = "soil_ph"
	FeatureTankLevel       = "tank_level"
	FeatureAmbientHumidity = "ambient_humidity"
	FeatureAmbientTemp     = "ambient_temp"
	FeatureRainNext48h     = "rain_next_48h"
)

var featureNames = []string{
	FeatureSoilMoisture,
	FeatureSoilTemp,
	FeatureSoilPH,
	FeatureTankLevel,
	FeatureAmbientHumidity,
	FeatureAmbientTemp,
	FeatureRainNext48h,
}

// FeatureNames returns the classifier input schema, in order.
func FeatureNames() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// FeatureVector is the fixed-shape classifier input.
type FeatureVector struct {
	SoilMoisture    float64 `json:"soil_moisture"`
	SoilTemp        float64 `json:"soil_temp"`
	SoilPH          float64 `json:"soil_ph"`
	TankLevel       float64 `json:"tank_level"`
	AmbientHumidity float64 `json:"ambient_humidity"`
	AmbientTemp     float64 `json:"ambient_temp"`
	RainNext48h     float64 `json:"rain_next_48h"`
}

// BuildFeatures merges a reading with the rainfall forecast. Missing sensor
// values default to 0, except pH which defaults to DefaultSoilPH. Values are
// not range checked.
func BuildFeatures(r Reading, rainNext48h float64) FeatureVector {
	return FeatureVector{
		SoilMoisture:    valueOr(r.SoilMoisture, 0),
		SoilTemp:        valueOr(r.SoilTemp, 0),
		SoilPH:          valueOr(r.SoilPH, DefaultSoilPH),
		TankLevel:       valueOr(r.TankLevel, 0),
		AmbientHumidity: valueOr(r.AmbientHumidity, 0),
		AmbientTemp:     valueOr(r.AmbientTemp, 0),
		RainNext48h:     rainNext48h,
	}
}

// Values returns the vector in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.SoilMoisture,
		v.SoilTemp,
		v.SoilPH,
		v.TankLevel,
		v.AmbientHumidity,
		v.AmbientTemp,
		v.RainNext48h,
	}
}

// Get looks a feature up by name.
func (v FeatureVector) Get(name string) (float64, bool) {
	switch name {
	case FeatureSoilMoisture:
		return v.SoilMoisture, true
	case FeatureSoilTemp:
		return v.SoilTemp, true
	case FeatureSoilPH:
		return v.SoilPH, true
	case FeatureTankLevel:
		return v.TankLevel, true
	case FeatureAmbientHumidity:
		return v.AmbientHumidity, true
	case FeatureAmbientTemp:
		return v.AmbientTemp, true
	case FeatureRainNext48h:
		return v.RainNext48h, true
	default:
		return 0, false
	}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
