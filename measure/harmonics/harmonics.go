// Package harmonics measures the harmonic content of a rendered tone:
// fundamental level, per-harmonic ratios, THD and odd/even balance.
package harmonics

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

const (
	defaultMaxHarmonics = 9
	// Hann main lobe half-width.
	defaultCaptureBins = 2
)

// Config holds analysis parameters.
type Config struct {
	SampleRate   float64
	Fundamental  float64
	MaxHarmonics int // highest harmonic order, default 9
	FFTSize      int // 0 picks the next power of two
	CaptureBins  int // bins summed on each side of a harmonic, default 2
}

// Result holds harmonic levels relative to the fundamental.
type Result struct {
	FundamentalLevel float64
	// Harmonics[k] is the level of harmonic k+2 over the fundamental.
	Harmonics []float64
	// THD is the root-sum-square of Harmonics.
	THD float64
	// OddEnergy and EvenEnergy sum the squared ratios of odd (3, 5, ...)
	// and even (2, 4, ...) harmonics.
	OddEnergy  float64
	EvenEnergy float64
}

// THDDB returns THD in dB, floored at -100 dB.
func (r Result) THDDB() float64 {
	return core.GainToDecibels(r.THD)
}

// Harmonic returns the level ratio of harmonic order k (k >= 2), or 0 if it
// was not measured.
func (r Result) Harmonic(k int) float64 {
	i := k - 2
	if i < 0 || i >= len(r.Harmonics) {
		return 0
	}
	return r.Harmonics[i]
}

// Analyze windows signal with a Hann window, transforms it and reads the
// level of the fundamental and its harmonics below Nyquist.
func Analyze(signal []float64, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("harmonics: empty signal")
	}

	cfg, err := normalize(cfg, len(signal))
	if err != nil {
		return Result{}, err
	}

	n := min(len(signal), cfg.FFTSize)

	windowed := make([]float64, n)
	copy(windowed, signal[:n])
	vecmath.MulBlockInPlace(windowed, hann(n))

	in := make([]complex128, cfg.FFTSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return Result{}, fmt.Errorf("harmonics: fft plan: %w", err)
	}

	out := make([]complex128, cfg.FFTSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("harmonics: fft: %w", err)
	}

	bins := cfg.FFTSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	fundamentalBin := int(math.Round(cfg.Fundamental / binHz))

	capture := cfg.CaptureBins
	if capture*2 > fundamentalBin {
		capture = fundamentalBin / 2
	}

	fundamental := captureLevel(mag, fundamentalBin, capture)
	if fundamental <= 0 {
		return Result{}, nil
	}

	res := Result{FundamentalLevel: fundamental}

	var sumSq float64
	for k := 2; k <= cfg.MaxHarmonics; k++ {
		bin := k * fundamentalBin
		if bin+capture >= bins {
			break
		}

		ratio := captureLevel(mag, bin, capture) / fundamental
		res.Harmonics = append(res.Harmonics, ratio)
		sumSq += ratio * ratio

		if k%2 == 0 {
			res.EvenEnergy += ratio * ratio
		} else {
			res.OddEnergy += ratio * ratio
		}
	}

	res.THD = math.Sqrt(sumSq)

	return res, nil
}

func normalize(cfg Config, length int) (Config, error) {
	if cfg.SampleRate <= 0 || !core.IsFinite(cfg.SampleRate) {
		return cfg, fmt.Errorf("harmonics: sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	if cfg.Fundamental <= 0 || cfg.Fundamental >= cfg.SampleRate/2 {
		return cfg, fmt.Errorf("harmonics: fundamental must be in (0, %g) Hz: %f", cfg.SampleRate/2, cfg.Fundamental)
	}

	if cfg.FFTSize == 0 {
		cfg.FFTSize = 2
		for cfg.FFTSize < length {
			cfg.FFTSize <<= 1
		}
	}

	if cfg.FFTSize < 2 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return cfg, fmt.Errorf("harmonics: fft size must be a power of two >= 2: %d", cfg.FFTSize)
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}

	if binHz := cfg.SampleRate / float64(cfg.FFTSize); cfg.Fundamental < binHz {
		return cfg, fmt.Errorf("harmonics: fundamental %g Hz below bin spacing %g Hz", cfg.Fundamental, binHz)
	}

	return cfg, nil
}

// captureLevel sums magnitudes over bin±capture, collecting the energy the
// window spreads into neighbouring bins.
func captureLevel(mag []float64, bin, capture int) float64 {
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(mag)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i]
	}

	return sum
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}
