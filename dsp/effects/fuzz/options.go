package fuzz

import (
	"fmt"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/cwbudde/algo-fuzz/dsp/filter/tpt"
	"github.com/cwbudde/algo-fuzz/dsp/smooth"
)

const (
	defaultRampSeconds = 0.02
	maxRampSeconds     = 5.0
	dcBlockCutoffHz    = 10.0
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	rampSeconds      float64
	rampShape        smooth.Shape
	singleDriveStep  bool
	frameLockedRamps bool
	sharedToneState  bool
	approxMode       ApproxMode
	toneTopology     tpt.Topology
	model            Model
	tone             ToneCharacter
}

func defaultConfig() config {
	return config{
		rampSeconds:  defaultRampSeconds,
		rampShape:    smooth.ShapeLinear,
		approxMode:   ApproxExact,
		toneTopology: tpt.TopologyStateVariable,
		model:        ModelHard,
		tone:         ToneNormal,
	}
}

// WithRampTime sets the smoothing time of drive, mix and output in
// seconds, in [0, 5]. Zero disables smoothing.
func WithRampTime(seconds float64) Option {
	return func(cfg *config) error {
		if !core.InRange(seconds, 0, maxRampSeconds) {
			return fmt.Errorf("fuzz: ramp time must be in [0, %g] s: %f", maxRampSeconds, seconds)
		}

		cfg.rampSeconds = seconds

		return nil
	}
}

// WithRampShape selects the smoothing curve of drive, mix and output.
func WithRampShape(shape smooth.Shape) Option {
	return func(cfg *config) error {
		if shape != smooth.ShapeLinear && shape != smooth.ShapeLog {
			return fmt.Errorf("fuzz: invalid ramp shape: %d", shape)
		}

		cfg.rampShape = shape

		return nil
	}
}

// WithSingleDriveStep makes every model draw one drive value per sample
// and use it for both drive terms. By default each model draws two
// successive values, so a drive ramp completes in half the ramp time.
func WithSingleDriveStep() Option {
	return func(cfg *config) error {
		cfg.singleDriveStep = true
		return nil
	}
}

// WithFrameLockedRamps advances the ramps once per frame and shares the
// values across channels. By default every channel-sample advances them.
func WithFrameLockedRamps() Option {
	return func(cfg *config) error {
		cfg.frameLockedRamps = true
		return nil
	}
}

// WithSharedToneState runs every channel through a single tone filter
// state, as a mono tone stage would. Channels then bleed into each other
// through the tone filters.
func WithSharedToneState() Option {
	return func(cfg *config) error {
		cfg.sharedToneState = true
		return nil
	}
}

// WithApproxMode selects exact or approximated per-sample math.
func WithApproxMode(mode ApproxMode) Option {
	return func(cfg *config) error {
		if !validApproxMode(mode) {
			return fmt.Errorf("fuzz: invalid approximation mode: %d", mode)
		}

		cfg.approxMode = mode

		return nil
	}
}

// WithToneTopology selects the tone filter structure. The default state
// variable topology gives 12 dB/oct; one-pole gives a gentler 6 dB/oct.
func WithToneTopology(topology tpt.Topology) Option {
	return func(cfg *config) error {
		if topology != tpt.TopologyStateVariable && topology != tpt.TopologyOnePole {
			return fmt.Errorf("fuzz: invalid tone topology: %d", topology)
		}

		cfg.toneTopology = topology

		return nil
	}
}

// WithModel sets the initial model.
func WithModel(m Model) Option {
	return func(cfg *config) error {
		if !validModel(m) {
			return fmt.Errorf("fuzz: invalid model: %d", m)
		}

		cfg.model = m

		return nil
	}
}

// WithToneCharacter sets the initial tone character.
func WithToneCharacter(tone ToneCharacter) Option {
	return func(cfg *config) error {
		if !validTone(tone) {
			return fmt.Errorf("fuzz: invalid tone character: %d", tone)
		}

		cfg.tone = tone

		return nil
	}
}
