package tpt

import (
	"fmt"
	"math"
)

// LinkwitzRiley is a 4th-order (24 dB/oct) Linkwitz-Riley lowpass or
// highpass built from two cascaded Butterworth state variable stages.
// Its response is -6 dB at the cutoff. State is kept per channel.
type LinkwitzRiley struct {
	first  *Filter
	second *Filter
}

// NewLinkwitzRiley creates a Linkwitz-Riley filter. mode must be
// ModeLowpass or ModeHighpass.
func NewLinkwitzRiley(sampleRate float64, channels int, mode Mode, cutoffHz float64) (*LinkwitzRiley, error) {
	if mode != ModeLowpass && mode != ModeHighpass {
		return nil, fmt.Errorf("tpt: linkwitz-riley mode must be lowpass or highpass: %s", mode)
	}

	opts := []Option{
		WithTopology(TopologyStateVariable),
		WithMode(mode),
		WithCutoff(cutoffHz),
		WithResonance(1 / math.Sqrt2),
	}

	first, err := New(sampleRate, channels, opts...)
	if err != nil {
		return nil, err
	}

	second, err := New(sampleRate, channels, opts...)
	if err != nil {
		return nil, err
	}

	return &LinkwitzRiley{first: first, second: second}, nil
}

// Prepare re-sizes state for channels at sampleRate and zeroes it.
func (lr *LinkwitzRiley) Prepare(sampleRate float64, channels int) error {
	if err := lr.first.Prepare(sampleRate, channels); err != nil {
		return err
	}

	return lr.second.Prepare(sampleRate, channels)
}

// SetCutoff sets the crossover frequency in Hz.
func (lr *LinkwitzRiley) SetCutoff(hz float64) {
	lr.first.SetCutoff(hz)
	lr.second.SetCutoff(hz)
}

// Reset zeroes the state of every channel.
func (lr *LinkwitzRiley) Reset() {
	lr.first.Reset()
	lr.second.Reset()
}

// ProcessSample filters one sample on channel ch.
func (lr *LinkwitzRiley) ProcessSample(ch int, x float64) float64 {
	return lr.second.ProcessSample(ch, lr.first.ProcessSample(ch, x))
}

// Cutoff returns the effective cutoff in Hz.
func (lr *LinkwitzRiley) Cutoff() float64 { return lr.first.Cutoff() }

// RequestedCutoff returns the cutoff last set, before clamping.
func (lr *LinkwitzRiley) RequestedCutoff() float64 { return lr.first.RequestedCutoff() }

// Mode returns the response type.
func (lr *LinkwitzRiley) Mode() Mode { return lr.first.Mode() }

// Channels returns the number of independent state slots.
func (lr *LinkwitzRiley) Channels() int { return lr.first.Channels() }
