package harmonics

import (
	"math"
	"testing"
)

const (
	testSampleRate = 48000.0
	testFFTSize    = 4096
	// 40 bins, so every harmonic lands exactly on a bin.
	testFundamental = 40 * testSampleRate / testFFTSize
)

func tone(f0 float64, partials map[int]float64) []float64 {
	out := make([]float64, testFFTSize)
	for k, amp := range partials {
		w := 2 * math.Pi * f0 * float64(k) / testSampleRate
		for i := range out {
			out[i] += amp * math.Sin(w*float64(i))
		}
	}
	return out
}

func testConfig() Config {
	return Config{SampleRate: testSampleRate, Fundamental: testFundamental, FFTSize: testFFTSize}
}

func TestAnalyzePureSine(t *testing.T) {
	res, err := Analyze(tone(testFundamental, map[int]float64{1: 0.5}), testConfig())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// Periodic Hann: main lobe 0.25 + 2*0.125 of N/2 scaled amplitude.
	want := 0.5 * testFFTSize / 2
	if math.Abs(res.FundamentalLevel-want)/want > 1e-9 {
		t.Fatalf("FundamentalLevel = %v, want %v", res.FundamentalLevel, want)
	}

	if res.THD > 1e-9 {
		t.Fatalf("THD = %v, want ~0", res.THD)
	}

	if len(res.Harmonics) != defaultMaxHarmonics-1 {
		t.Fatalf("len(Harmonics) = %d, want %d", len(res.Harmonics), defaultMaxHarmonics-1)
	}

	if res.THDDB() > -100+1e-9 {
		t.Fatalf("THDDB() = %v, want floor", res.THDDB())
	}
}

func TestAnalyzeKnownPartials(t *testing.T) {
	tests := []struct {
		name     string
		partials map[int]float64
		wantOdd  float64
		wantEven float64
	}{
		{name: "third", partials: map[int]float64{1: 1, 3: 0.1}, wantOdd: 0.01},
		{name: "second", partials: map[int]float64{1: 1, 2: 0.05}, wantEven: 0.0025},
		{name: "mixed", partials: map[int]float64{1: 1, 2: 0.1, 3: 0.2, 4: 0.05}, wantOdd: 0.04, wantEven: 0.0125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tone(testFundamental, tt.partials), testConfig())
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			for k, amp := range tt.partials {
				if k == 1 {
					continue
				}
				if got := res.Harmonic(k); math.Abs(got-amp) > 1e-9 {
					t.Fatalf("Harmonic(%d) = %v, want %v", k, got, amp)
				}
			}

			if math.Abs(res.OddEnergy-tt.wantOdd) > 1e-9 {
				t.Fatalf("OddEnergy = %v, want %v", res.OddEnergy, tt.wantOdd)
			}
			if math.Abs(res.EvenEnergy-tt.wantEven) > 1e-9 {
				t.Fatalf("EvenEnergy = %v, want %v", res.EvenEnergy, tt.wantEven)
			}

			wantTHD := math.Sqrt(tt.wantOdd + tt.wantEven)
			if math.Abs(res.THD-wantTHD) > 1e-9 {
				t.Fatalf("THD = %v, want %v", res.THD, wantTHD)
			}
		})
	}
}

func TestAnalyzeStopsAtNyquist(t *testing.T) {
	cfg := testConfig()
	cfg.Fundamental = 400 * testSampleRate / testFFTSize
	cfg.MaxHarmonics = 20

	res, err := Analyze(tone(cfg.Fundamental, map[int]float64{1: 1}), cfg)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// Harmonics up to bin 2048: orders 2..5.
	if len(res.Harmonics) != 4 {
		t.Fatalf("len(Harmonics) = %d, want 4", len(res.Harmonics))
	}

	if res.Harmonic(1) != 0 || res.Harmonic(9) != 0 {
		t.Fatal("Harmonic() outside measured range should be 0")
	}
}

func TestAnalyzeSilence(t *testing.T) {
	res, err := Analyze(make([]float64, testFFTSize), testConfig())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.FundamentalLevel != 0 || res.THD != 0 || len(res.Harmonics) != 0 {
		t.Fatalf("silence: got %+v, want zero result", res)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	sig := make([]float64, 256)

	tests := []struct {
		name string
		sig  []float64
		cfg  Config
	}{
		{name: "empty", sig: nil, cfg: testConfig()},
		{name: "sample rate", sig: sig, cfg: Config{Fundamental: 100}},
		{name: "fundamental zero", sig: sig, cfg: Config{SampleRate: testSampleRate}},
		{name: "fundamental above nyquist", sig: sig, cfg: Config{SampleRate: testSampleRate, Fundamental: 30000}},
		{name: "fft size", sig: sig, cfg: Config{SampleRate: testSampleRate, Fundamental: 1000, FFTSize: 300}},
		{name: "below bin spacing", sig: sig, cfg: Config{SampleRate: testSampleRate, Fundamental: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Analyze(tt.sig, tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
