package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/equityrank/internal/contracts"
)

// Neutral is the normalized score used when a value cannot be placed among its peers
const Neutral = 0.5

// Normalize maps value to [0,1] by peer min-max scaling.
// nil/NaN/Inf values and peer sets with fewer than 2 distinct finite values map to Neutral.
func Normalize(value *float64, peers []float64, higherBetter bool) float64 {
	if contracts.IsMissing(value) {
		return Neutral
	}

	clean := finite(peers)
	if len(clean) < 2 {
		return Neutral
	}

	lo, hi := floats.Min(clean), floats.Max(clean)
	if hi == lo {
		return Neutral
	}

	x := scaled(*value, lo, hi)
	if math.IsNaN(x) {
		return Neutral
	}
	if !higherBetter {
		x = 1 - x
	}
	return clamp(x, 0, 1)
}

// scaled returns (v-lo)/(hi-lo). Near the float64 limits the differences
// overflow, so the operands are divided by max(|lo|,|hi|) first.
func scaled(v, lo, hi float64) float64 {
	span := hi - lo
	num := v - lo
	if !math.IsInf(span, 0) && !math.IsInf(num, 0) {
		return num / span
	}

	s := math.Max(math.Abs(lo), math.Abs(hi))
	return (v/s - lo/s) / (hi/s - lo/s)
}

// finite drops NaN and ±Inf entries
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// clamp bounds v to [lo,hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
