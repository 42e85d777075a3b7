package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

// Response holds the one-sided spectrum of an impulse response. Magnitude
// and Power cover bins 0..FFTSize/2.
type Response struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64
	Power      []float64
}

// Analyze transforms ir with an fftSize-point FFT. ir is truncated or
// zero-padded to fftSize. An fftSize of 0 picks the next power of two that
// holds ir.
func Analyze(ir []float64, sampleRate float64, fftSize int) (*Response, error) {
	if len(ir) == 0 {
		return nil, fmt.Errorf("response: empty impulse response")
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("response: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if fftSize == 0 {
		fftSize = nextPowerOf2(len(ir))
	}

	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("response: fft size must be a power of two >= 2: %d", fftSize)
	}

	in := make([]complex128, fftSize)
	for i := 0; i < len(ir) && i < fftSize; i++ {
		in[i] = complex(ir[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	r := &Response{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Magnitude:  make([]float64, bins),
		Power:      make([]float64, bins),
	}

	vecmath.Magnitude(r.Magnitude, re, im)
	vecmath.Power(r.Power, re, im)

	return r, nil
}

// BinHz returns the bin spacing in Hz.
func (r *Response) BinHz() float64 {
	return r.SampleRate / float64(r.FFTSize)
}

// Bin returns the bin nearest to freqHz, clamped to [0, FFTSize/2].
func (r *Response) Bin(freqHz float64) int {
	bin := int(math.Round(freqHz / r.BinHz()))
	return max(0, min(bin, len(r.Magnitude)-1))
}

// MagnitudeAt returns the linear magnitude of the bin nearest to freqHz.
func (r *Response) MagnitudeAt(freqHz float64) float64 {
	return r.Magnitude[r.Bin(freqHz)]
}

// MagnitudeDBAt returns MagnitudeAt in dB, floored at -100 dB.
func (r *Response) MagnitudeDBAt(freqHz float64) float64 {
	return core.GainToDecibels(r.MagnitudeAt(freqHz))
}

// BandEnergy sums the power of all bins between loHz and hiHz inclusive.
func (r *Response) BandEnergy(loHz, hiHz float64) float64 {
	lo, hi := r.Bin(loHz), r.Bin(hiHz)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += r.Power[i]
	}

	return sum
}

// MeanMagnitude averages the linear magnitude over loHz..hiHz.
func (r *Response) MeanMagnitude(loHz, hiHz float64) float64 {
	lo, hi := r.Bin(loHz), r.Bin(hiHz)
	if hi < lo {
		return 0
	}

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += r.Magnitude[i]
	}

	return sum / float64(hi-lo+1)
}

func nextPowerOf2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
