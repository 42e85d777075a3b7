package tpt

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

const (
	defaultCutoffHz  = 1000.0
	defaultResonance = 1 / math.Sqrt2

	minCutoffHz     = 1e-3
	maxCutoffRatio  = 0.49
	minResonance    = 0.01
	maxResonance    = 100.0
	defaultChannels = 1
)

// Topology selects the filter structure.
type Topology int

const (
	// TopologyStateVariable is the two-pole TPT state variable filter
	// (12 dB/oct, Butterworth at the default resonance).
	TopologyStateVariable Topology = iota
	// TopologyOnePole is the single-pole TPT filter (6 dB/oct).
	TopologyOnePole
)

func (t Topology) String() string {
	switch t {
	case TopologyStateVariable:
		return "state_variable"
	case TopologyOnePole:
		return "one_pole"
	default:
		return "unknown"
	}
}

// Mode selects which filter output is returned.
type Mode int

const (
	ModeLowpass Mode = iota
	ModeHighpass
	// ModeBandpass is only meaningful for TopologyStateVariable; the
	// one-pole topology has no band output and returns its lowpass.
	ModeBandpass
)

func (m Mode) String() string {
	switch m {
	case ModeLowpass:
		return "lowpass"
	case ModeHighpass:
		return "highpass"
	case ModeBandpass:
		return "bandpass"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	topology  Topology
	mode      Mode
	cutoffHz  float64
	resonance float64
}

func defaultConfig() config {
	return config{
		topology:  TopologyStateVariable,
		mode:      ModeLowpass,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
	}
}

// WithTopology selects one-pole or state variable processing.
func WithTopology(topology Topology) Option {
	return func(cfg *config) error {
		if !validTopology(topology) {
			return fmt.Errorf("tpt: invalid topology: %d", topology)
		}

		cfg.topology = topology

		return nil
	}
}

// WithMode selects the filter response.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !validMode(mode) {
			return fmt.Errorf("tpt: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithCutoff sets the cutoff frequency in Hz. It is clamped below Nyquist
// when the filter is prepared.
func WithCutoff(hz float64) Option {
	return func(cfg *config) error {
		if hz <= 0 || !core.IsFinite(hz) {
			return fmt.Errorf("tpt: cutoff must be > 0 and finite: %f", hz)
		}

		cfg.cutoffHz = hz

		return nil
	}
}

// WithResonance sets the state variable Q in [0.01, 100].
func WithResonance(q float64) Option {
	return func(cfg *config) error {
		if !core.InRange(q, minResonance, maxResonance) {
			return fmt.Errorf("tpt: resonance must be in [%g, %g]: %f", minResonance, maxResonance, q)
		}

		cfg.resonance = q

		return nil
	}
}

// Filter is a topology-preserving-transform lowpass/highpass filter with
// independent state per channel.
type Filter struct {
	sampleRate float64
	topology   Topology
	mode       Mode
	resonance  float64

	requestedHz float64
	cutoffHz    float64 // requestedHz clamped for the current sample rate

	// coefficients
	g  float64
	gg float64 // one-pole: g/(1+g)
	r2 float64
	h  float64

	s1 []float64
	s2 []float64
}

// New creates a filter prepared for sampleRate and channels.
func New(sampleRate float64, channels int, opts ...Option) (*Filter, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		topology:  cfg.topology,
		mode:        cfg.mode,
		resonance:   cfg.resonance,
		requestedHz: cfg.cutoffHz,
		cutoffHz:    cfg.cutoffHz,
	}

	if err := f.Prepare(sampleRate, channels); err != nil {
		return nil, err
	}

	return f, nil
}

// Prepare sizes the per-channel state for channels, adopts sampleRate,
// recomputes coefficients for the requested cutoff and zeroes the state.
// The requested cutoff is kept, so a clamp at a low sample rate is undone
// when the filter is prepared again at a higher one.
func (f *Filter) Prepare(sampleRate float64, channels int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("tpt: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("tpt: channel count must be >= 1: %d", channels)
	}

	f.sampleRate = sampleRate
	f.s1 = make([]float64, channels)
	f.s2 = make([]float64, channels)
	f.update()

	return nil
}

// SetMode selects the returned response. Invalid modes are ignored.
func (f *Filter) SetMode(mode Mode) {
	if validMode(mode) {
		f.mode = mode
	}
}

// SetCutoff sets the cutoff in Hz. The effective cutoff is clamped to
// (0, 0.49*sampleRate]. It does not touch the filter state.
func (f *Filter) SetCutoff(hz float64) {
	if !core.IsFinite(hz) {
		return
	}

	f.requestedHz = hz
	f.update()
}

// SetResonance sets the state variable Q, clamped to [0.01, 100].
func (f *Filter) SetResonance(q float64) {
	if !core.IsFinite(q) {
		return
	}

	f.resonance = core.Clamp(q, minResonance, maxResonance)
	f.update()
}

// Reset zeroes the state of every channel.
func (f *Filter) Reset() {
	core.Zero(f.s1)
	core.Zero(f.s2)
}

// ResetChannel zeroes the state of one channel.
func (f *Filter) ResetChannel(ch int) {
	if ch < 0 || ch >= len(f.s1) {
		return
	}

	f.s1[ch] = 0
	f.s2[ch] = 0
}

// ProcessSample filters one sample on channel ch. Channels outside the
// prepared range pass x through unchanged.
func (f *Filter) ProcessSample(ch int, x float64) float64 {
	if ch < 0 || ch >= len(f.s1) {
		return x
	}

	if f.topology == TopologyOnePole {
		return f.processOnePole(ch, x)
	}

	return f.processStateVariable(ch, x)
}

// ProcessInPlace filters buf on channel ch.
func (f *Filter) ProcessInPlace(ch int, buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(ch, buf[i])
	}
}

// SampleRate returns the prepared sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Channels returns the number of independent state slots.
func (f *Filter) Channels() int { return len(f.s1) }

// Cutoff returns the effective (clamped) cutoff in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoffHz }

// RequestedCutoff returns the cutoff last set, before clamping.
func (f *Filter) RequestedCutoff() float64 { return f.requestedHz }

// Mode returns the selected response.
func (f *Filter) Mode() Mode { return f.mode }

// Topology returns the filter structure.
func (f *Filter) Topology() Topology { return f.topology }

// Resonance returns the state variable Q.
func (f *Filter) Resonance() float64 { return f.resonance }

func (f *Filter) processOnePole(ch int, x float64) float64 {
	s := f.s1[ch]
	v := (x - s) * f.gg
	lp := v + s
	f.s1[ch] = core.FlushDenormals(lp + v)

	if f.mode == ModeHighpass {
		return x - lp
	}

	return lp
}

func (f *Filter) processStateVariable(ch int, x float64) float64 {
	s1 := f.s1[ch]
	s2 := f.s2[ch]

	hp := (x - s1*(f.r2+f.g) - s2) * f.h
	bp := hp*f.g + s1
	f.s1[ch] = core.FlushDenormals(hp*f.g + bp)

	lp := bp*f.g + s2
	f.s2[ch] = core.FlushDenormals(bp*f.g + lp)

	switch f.mode {
	case ModeHighpass:
		return hp
	case ModeBandpass:
		return bp
	default:
		return lp
	}
}

func (f *Filter) update() {
	if f.sampleRate <= 0 {
		return
	}

	f.cutoffHz = core.Clamp(f.requestedHz, minCutoffHz, maxCutoffRatio*f.sampleRate)
	f.g = math.Tan(math.Pi * f.cutoffHz / f.sampleRate)
	f.gg = f.g / (1 + f.g)
	f.r2 = 1 / f.resonance
	f.h = 1 / (1 + f.r2*f.g + f.g*f.g)
}

func validTopology(topology Topology) bool {
	return topology == TopologyStateVariable || topology == TopologyOnePole
}

func validMode(mode Mode) bool {
	return mode >= ModeLowpass && mode <= ModeBandpass
}
