package core

import "math"

const defaultEpsilon = 1e-12

// MinusInfinityDB is the level at and below which DecibelsToGain returns 0.
const MinusInfinityDB = -100.0

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// InRange reports whether x is finite and within [lo, hi].
func InRange(x, lo, hi float64) bool {
	return IsFinite(x) && x >= lo && x <= hi
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DecibelsToGain converts dB to linear amplitude (20*log10 convention).
// Levels at or below MinusInfinityDB map to 0.
func DecibelsToGain(db float64) float64 {
	if db <= MinusInfinityDB {
		return 0
	}

	return math.Pow(10, db*0.05)
}

// GainToDecibels converts linear amplitude to dB (20*log10 convention).
// Zero and negative gains map to MinusInfinityDB.
func GainToDecibels(gain float64) float64 {
	if gain <= 0 {
		return MinusInfinityDB
	}

	return math.Max(MinusInfinityDB, 20*math.Log10(gain))
}

// PowerToDecibels converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func PowerToDecibels(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
