package irrigation

import (
	"math"

	"github.com/i474232898/irrigation-predictor/internal/common"
)

const (
	// TargetSoilMoisture is the moisture baseline (%) irrigation tops up to.
	TargetSoilMoisture = 30.0

	// LitresPerPoint is the water needed per percentage point of deficit.
	LitresPerPoint = 2.0

	// HeavyRainMM of forecast rain cancels irrigation entirely.
	HeavyRainMM = 10.0

	// LightRainMM of forecast rain halves the requirement.
	LightRainMM = 5.0

	lightRainFactor = 0.5
)

// ComputeVolume converts the soil moisture deficit into litres, discounted by
// forecast rain and capped by the water left in the tank. The result is rounded
// to 2 decimal places, rounding down when the tank is the cap so it never
// exceeds tankLevel. tankLevel is trusted as given.
func ComputeVolume(soilMoisture, tankLevel, rainNext48h float64) float64 {
	deficit := math.Max(0, TargetSoilMoisture-soilMoisture)
	need := deficit * LitresPerPoint

	switch {
	case rainNext48h >= HeavyRainMM:
		need = 0
	case rainNext48h >= LightRainMM:
		need *= lightRainFactor
	}

	litres := common.Round(math.Min(need, tankLevel), 2)
	if litres > tankLevel {
		litres = math.Floor(tankLevel*100) / 100
	}
	return litres
}
