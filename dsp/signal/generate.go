// Package signal generates deterministic test and render signals.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

// Kind names a signal shape.
type Kind int

const (
	KindSilence Kind = iota
	KindSine
	KindNoise
	KindImpulse
	KindSweep
)

func (k Kind) String() string {
	switch k {
	case KindSilence:
		return "silence"
	case KindSine:
		return "sine"
	case KindNoise:
		return "noise"
	case KindImpulse:
		return "impulse"
	case KindSweep:
		return "sweep"
	default:
		return "unknown"
	}
}

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k := KindSilence; k <= KindSweep; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("signal: unknown kind: %q", name)
}

// Params describes a signal for Generate. Frequency is the sine frequency
// or the sweep start; EndFrequency is the sweep end.
type Params struct {
	Kind         Kind
	Frequency    float64
	EndFrequency float64
	Amplitude    float64
}

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator) error

// WithSeed sets the noise seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) error {
		g.seed = seed
		return nil
	}
}

// NewGenerator creates a generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("signal: sample rate must be > 0 and finite: %f", sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Generate renders p into a new slice of length samples.
func (g *Generator) Generate(p Params, samples int) ([]float64, error) {
	switch p.Kind {
	case KindSilence:
		return g.Silence(samples)
	case KindSine:
		return g.Sine(p.Frequency, p.Amplitude, samples)
	case KindNoise:
		return g.WhiteNoise(p.Amplitude, samples)
	case KindImpulse:
		return g.Impulse(p.Amplitude, samples)
	case KindSweep:
		return g.LogSweep(p.Frequency, p.EndFrequency, p.Amplitude, samples)
	default:
		return nil, fmt.Errorf("signal: unknown kind: %d", p.Kind)
	}
}

// Silence returns samples zeros.
func (g *Generator) Silence(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	return make([]float64, samples), nil
}

// Sine generates amplitude*sin(2*pi*f*n/fs).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if freqHz < 0 || freqHz >= g.sampleRate/2 {
		return nil, fmt.Errorf("signal: sine frequency must be in [0, %g): %f", g.sampleRate/2, freqHz)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude). Each call
// restarts from the seed.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	rng := rand.New(rand.NewSource(g.seed))
	out := make([]float64, samples)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Impulse returns a single sample of amplitude at index 0.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	out[0] = amplitude

	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz over
// samples.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	nyquist := g.sampleRate / 2
	if startHz <= 0 || endHz <= startHz || endHz >= nyquist {
		return nil, fmt.Errorf("signal: sweep needs 0 < start < end < %g: %f..%f", nyquist, startHz, endHz)
	}

	duration := float64(samples) / g.sampleRate
	rate := math.Log(endHz / startHz)
	k := 2 * math.Pi * startHz * duration / rate

	out := make([]float64, samples)
	for i := range out {
		t := float64(i) / g.sampleRate
		out[i] = amplitude * math.Sin(k*(math.Exp(t/duration*rate)-1))
	}

	return out, nil
}

// Normalize scales data to targetPeak and returns a new slice. Silent input
// stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	peak := 0.0
	for _, v := range data {
		peak = max(peak, math.Abs(v))
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
