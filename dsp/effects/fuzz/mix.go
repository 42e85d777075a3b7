package fuzz

import (
	"math"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/meko-christian/algo-approx"
)

const (
	halfPi      = math.Pi / 2
	wetExponent = 1.5

	// ln10Over20 converts dB to a natural exponent: 10^(dB/20) = e^(dB*ln10/20).
	ln10Over20 = math.Ln10 / 20
)

// ApproxMode selects exact or approximated math in the per-sample path.
type ApproxMode int

const (
	// ApproxExact uses the math package.
	ApproxExact ApproxMode = iota
	// ApproxFast uses algo-approx exp/sqrt and Pade sin/cos.
	ApproxFast
)

func (m ApproxMode) String() string {
	switch m {
	case ApproxExact:
		return "exact"
	case ApproxFast:
		return "fast"
	default:
		return "unknown"
	}
}

func validApproxMode(m ApproxMode) bool {
	return m == ApproxExact || m == ApproxFast
}

// MixWeights returns the dry and wet weights for mix in [0, 1]:
// dry = cos(mix*pi/2), wet = sin(mix*pi/2)^1.5.
func MixWeights(mix float64) (dry, wet float64) {
	mix = core.Clamp(mix, 0, 1)
	s := math.Sin(mix * halfPi)
	return math.Cos(mix * halfPi), math.Pow(s, wetExponent)
}

func mixWeightsFast(mix float64) (dry, wet float64) {
	mix = core.Clamp(mix, 0, 1)
	s := max(padeSin(mix*halfPi), 0)
	c := max(padeCos(mix*halfPi), 0)
	if s == 0 {
		return c, 0
	}
	return c, s * approx.FastSqrt(s)
}

func gainFast(db float64) float64 {
	if db <= core.MinusInfinityDB {
		return 0
	}
	return approx.FastExp(db * ln10Over20)
}

// padeSin approximates sin(x) for x in [-pi, pi].
func padeSin(x float64) float64 {
	x2 := x * x
	num := -x * (-11511339840 + x2*(1640635920+x2*(-52785432+x2*479249)))
	den := 11511339840 + x2*(277920720+x2*(3177720+x2*18361))
	return num / den
}

// padeCos approximates cos(x) for x in [-pi, pi].
func padeCos(x float64) float64 {
	x2 := x * x
	num := -(-39251520 + x2*(18471600+x2*(-1075032+14615*x2)))
	den := 39251520 + x2*(1154160+x2*(16632+x2*127))
	return num / den
}
