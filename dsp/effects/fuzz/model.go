package fuzz

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

// clipThreshold is the level above which every model folds the driven
// signal back, leaving a little headroom below full scale.
const clipThreshold = 0.99

// Model selects the waveshaping transfer function.
type Model int

const (
	// ModelHard squares the driven signal and hard-clips at 0.99 (-6 dB trim).
	ModelHard Model = iota
	// ModelRedux cubes the driven signal and folds clipped peaks up by 3x
	// (-20 dB trim).
	ModelRedux
	// ModelFat cubes the driven signal and folds clipped peaks to 0.7x
	// (-8 dB trim).
	ModelFat
)

func (m Model) String() string {
	switch m {
	case ModelHard:
		return "hard"
	case ModelRedux:
		return "redux"
	case ModelFat:
		return "fat"
	default:
		return "unknown"
	}
}

// Models lists every model in host choice order.
func Models() []Model {
	return []Model{ModelHard, ModelRedux, ModelFat}
}

// ParseModel maps a case-insensitive model name to a Model.
func ParseModel(name string) (Model, error) {
	for _, m := range Models() {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("fuzz: unknown model: %q", name)
}

func validModel(m Model) bool {
	return m >= ModelHard && m <= ModelFat
}

// ToneCharacter selects the cutoff pair of the tone lowpass and highpass.
type ToneCharacter int

const (
	ToneDarkest ToneCharacter = iota
	ToneDarker
	ToneNormal
	ToneBrighter
	ToneBrightest
)

func (t ToneCharacter) String() string {
	switch t {
	case ToneDarkest:
		return "darkest"
	case ToneDarker:
		return "darker"
	case ToneNormal:
		return "normal"
	case ToneBrighter:
		return "brighter"
	case ToneBrightest:
		return "brightest"
	default:
		return "unknown"
	}
}

// Cutoffs returns the tone lowpass and highpass cutoffs in Hz.
func (t ToneCharacter) Cutoffs() (lowpassHz, highpassHz float64) {
	switch t {
	case ToneDarkest:
		return 900, 10
	case ToneDarker:
		return 2500, 10
	case ToneBrighter:
		return 20000, 200
	case ToneBrightest:
		return 20000, 400
	default:
		return 13000, 10
	}
}

// ToneCharacters lists every tone character in host choice order
// (brightest first).
func ToneCharacters() []ToneCharacter {
	return []ToneCharacter{ToneBrightest, ToneBrighter, ToneNormal, ToneDarker, ToneDarkest}
}

// ParseToneCharacter maps a case-insensitive tone name to a ToneCharacter.
func ParseToneCharacter(name string) (ToneCharacter, error) {
	for _, t := range ToneCharacters() {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("fuzz: unknown tone character: %q", name)
}

func validTone(t ToneCharacter) bool {
	return t >= ToneDarkest && t <= ToneBrightest
}

var (
	hardTrim  = core.DecibelsToGain(-6)
	reduxTrim = core.DecibelsToGain(-20)
	fatTrim   = core.DecibelsToGain(-8)
)

// Shape applies the model's drive nonlinearity, clip and static trim to x.
// g1 scales the nonlinear term and g2 the linear term; the engine feeds two
// successive drive ramp values so a settled drive gives g1 == g2.
func Shape(m Model, x, g1, g2 float64) float64 {
	switch m {
	case ModelRedux:
		return shapeRedux(x, g1, g2)
	case ModelFat:
		return shapeFat(x, g1, g2)
	default:
		return shapeHard(x, g1, g2)
	}
}

func shapeHard(x, g1, g2 float64) float64 {
	d := x * g1
	return fold(d*d+x*g2, 1) * hardTrim
}

func shapeRedux(x, g1, g2 float64) float64 {
	d := x * g1
	return fold(d*d*d+x*g2, 3) * reduxTrim
}

func shapeFat(x, g1, g2 float64) float64 {
	d := x * g1
	return fold(d*d*d+x*g2, 0.7) * fatTrim
}

// fold pulls values beyond the clip threshold back to ±0.99*scale.
func fold(w, scale float64) float64 {
	a := math.Abs(w)
	if a > clipThreshold {
		return w * (clipThreshold / a) * scale
	}
	return w
}
