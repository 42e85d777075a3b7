package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

const (
	// targetEpsilon is the tolerance under which SetTarget treats a value
	// as unchanged.
	targetEpsilon = 1e-9

	defaultLogMidPointDB = -40.0
)

// Shape selects the interpolation curve of a Ramp.
type Shape int

const (
	// ShapeLinear moves by a constant increment per step.
	ShapeLinear Shape = iota
	// ShapeLog follows a logarithmic/exponential curve between source and
	// target; see SetLogParameters.
	ShapeLog
)

func (s Shape) String() string {
	switch s {
	case ShapeLinear:
		return "linear"
	case ShapeLog:
		return "log"
	default:
		return "unknown"
	}
}

// Ramp converts target changes into a sample-accurate interpolation.
//
// The zero value is a linear ramp at rest at 0 with a ramp length of zero
// steps, which snaps to every new target. Call Reset to configure a ramp
// length. A Ramp is owned by one goroutine.
type Ramp struct {
	shape Shape

	current float64
	target  float64
	source  float64

	countdown     int
	stepsToTarget int

	// linear
	step float64

	// log
	midPointGain float64
	increasing   bool
	r            float64
	d            float64
	temp         float64
}

// NewLinear returns a linear ramp at rest at initial.
func NewLinear(initial float64) Ramp {
	return Ramp{shape: ShapeLinear, current: initial, target: initial}
}

// NewLog returns a log ramp at rest at initial with the default curve
// (-40 dB mid point, increasing rate of change).
func NewLog(initial float64) Ramp {
	return Ramp{
		shape:        ShapeLog,
		current:      initial,
		target:       initial,
		midPointGain: core.DecibelsToGain(defaultLogMidPointDB),
		increasing:   true,
	}
}

// SetLogParameters configures the log curve. midPointDB is the level of the
// ramp's mid point relative to the target at 0 dB and the source at -inf dB;
// it must be < 0 and must not equal the linear mid point (≈ -6.02 dB).
// With increasingRate the ramp starts shallow and steepens. Called while a
// log ramp is active, it restarts the ramp from the current value with the
// full ramp length, so the output stays continuous.
func (r *Ramp) SetLogParameters(midPointDB float64, increasingRate bool) error {
	if !core.IsFinite(midPointDB) || midPointDB >= 0 || midPointDB <= core.MinusInfinityDB {
		return fmt.Errorf("smooth: log mid point must be in (%g, 0) dB: %f", core.MinusInfinityDB, midPointDB)
	}

	gain := core.DecibelsToGain(midPointDB)
	if math.Abs(gain-0.5) < 1e-9 {
		return fmt.Errorf("smooth: log mid point %f dB is the linear mid point", midPointDB)
	}

	r.midPointGain = gain
	r.increasing = increasingRate

	if r.shape == ShapeLog && r.countdown > 0 {
		r.source = r.current
		r.countdown = r.stepsToTarget
	}

	r.updateCoefficients()

	return nil
}

// Reset sets the ramp length to floor(rampSeconds*sampleRate) steps and
// puts the ramp at rest at its target. Non-positive or non-finite inputs
// give a zero-length ramp that snaps to new targets.
func (r *Ramp) Reset(sampleRate, rampSeconds float64) {
	steps := 0
	if sampleRate > 0 && rampSeconds > 0 && core.IsFinite(sampleRate) && core.IsFinite(rampSeconds) {
		steps = int(math.Floor(rampSeconds * sampleRate))
	}

	r.ResetSteps(steps)
}

// ResetSteps sets the ramp length in steps and puts the ramp at rest at its
// target.
func (r *Ramp) ResetSteps(steps int) {
	if steps < 0 {
		steps = 0
	}

	r.stepsToTarget = steps
	r.SetImmediate(r.target)
	r.updateCoefficients()
}

// SetImmediate jumps to value without ramping.
func (r *Ramp) SetImmediate(value float64) {
	r.current = value
	r.target = value
	r.source = value
	r.countdown = 0
	r.temp = 0
}

// SetTarget starts a ramp from the current value to target. Targets nearly
// equal to the present target are ignored.
func (r *Ramp) SetTarget(target float64) {
	if core.NearlyEqual(target, r.target, targetEpsilon) {
		return
	}

	if r.stepsToTarget <= 0 {
		r.SetImmediate(target)
		return
	}

	r.target = target
	r.source = r.current
	r.countdown = r.stepsToTarget

	switch r.shape {
	case ShapeLog:
		r.updateCoefficients()
	default:
		r.step = (r.target - r.current) / float64(r.countdown)
	}
}

// Next advances the ramp by one step and returns the new value. At rest it
// returns the target without changing state.
func (r *Ramp) Next() float64 {
	if r.countdown <= 0 {
		return r.target
	}

	r.countdown--
	if r.countdown == 0 {
		r.current = r.target
		return r.current
	}

	switch r.shape {
	case ShapeLog:
		r.temp = r.temp*r.r + r.d
		r.current = r.source + r.temp*(r.target-r.source)
	default:
		r.current += r.step
	}

	return r.current
}

// Skip advances the ramp by n steps in closed form and returns the value
// after the last one. It is equivalent to calling Next n times.
func (r *Ramp) Skip(n int) float64 {
	if n <= 0 {
		if r.countdown <= 0 {
			return r.target
		}
		return r.current
	}

	if n >= r.countdown {
		r.SetImmediate(r.target)
		return r.target
	}

	r.countdown -= n

	switch r.shape {
	case ShapeLog:
		if r.r == 1 {
			r.temp += r.d * float64(n)
		} else {
			rn := math.Pow(r.r, float64(n))
			r.temp = r.temp*rn + r.d*(rn-1)/(r.r-1)
		}
		r.current = r.source + r.temp*(r.target-r.source)
	default:
		r.current += r.step * float64(n)
	}

	return r.current
}

// Current returns the most recently produced value.
func (r *Ramp) Current() float64 { return r.current }

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 { return r.target }

// IsSmoothing reports whether steps remain before the target is reached.
func (r *Ramp) IsSmoothing() bool { return r.countdown > 0 }

// Remaining returns the number of steps left in the active ramp.
func (r *Ramp) Remaining() int { return r.countdown }

// Steps returns the configured ramp length.
func (r *Ramp) Steps() int { return r.stepsToTarget }

// Shape returns the interpolation curve.
func (r *Ramp) Shape() Shape { return r.shape }

func (r *Ramp) updateCoefficients() {
	r.temp = 0
	if r.shape != ShapeLog || r.stepsToTarget <= 0 {
		return
	}

	if r.midPointGain == 0 {
		r.midPointGain = core.DecibelsToGain(defaultLogMidPointDB)
	}

	dd := r.midPointGain
	if !r.increasing {
		dd = 1 - dd
	}

	base := 1/dd - 1
	steps := float64(r.stepsToTarget)
	r.r = math.Pow(base, 2/steps)

	if math.Abs(r.r-1) < 1e-12 {
		r.r = 1
		r.d = 1 / steps
		return
	}

	rn := math.Pow(r.r, steps)
	r.d = (r.r - 1) / (rn - 1)
}
