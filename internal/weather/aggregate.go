package weather

import "math"

// SumWindow adds up the first n precipitation values. Negative, NaN and infinite
// values contribute nothing.
func SumWindow(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}

	var sum float64
	for _, v := range values[:n] {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
	}
	return sum
}
