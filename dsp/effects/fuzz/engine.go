package fuzz

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/cwbudde/algo-fuzz/dsp/filter/tpt"
	"github.com/cwbudde/algo-fuzz/dsp/smooth"
)

// controls holds the values published by the control goroutine. The audio
// goroutine picks them up at the next block once dirty is set.
type controls struct {
	dirty  atomic.Bool
	drive  atomic.Uint64
	mix    atomic.Uint64
	output atomic.Uint64
	model  atomic.Int32
	tone   atomic.Int32
}

func storeFloat(a *atomic.Uint64, v float64) { a.Store(math.Float64bits(v)) }

func loadFloat(a *atomic.Uint64) float64 { return math.Float64frombits(a.Load()) }

// frame carries the ramp-derived gains for one render step.
type frame struct {
	drive1 float64
	drive2 float64
	dry    float64
	wet    float64
	out    float64
}

// Engine is the fuzz processor: DC blocking, waveshaping, tone filtering,
// dry/wet mix and output trim with smoothed drive, mix and output.
//
// Setters may be called from any goroutine. Prepare and Reset must not run
// concurrently with processing.
type Engine struct {
	cfg      config
	spec     core.ProcessSpec
	prepared bool

	controls controls

	// owned by the processing goroutine
	drive  smooth.Ramp
	mix    smooth.Ramp
	output smooth.Ramp
	model  Model
	tone   ToneCharacter

	dc       *tpt.LinkwitzRiley
	toneLow  *tpt.Filter
	toneHigh *tpt.Filter
}

// New creates an unprepared engine. Call Prepare before processing.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		cfg:   cfg,
		model: cfg.model,
		tone:  cfg.tone,
	}

	if cfg.rampShape == smooth.ShapeLog {
		e.drive = smooth.NewLog(DefaultDriveDB)
		e.mix = smooth.NewLog(DefaultMix)
		e.output = smooth.NewLog(DefaultOutputDB)
	} else {
		e.drive = smooth.NewLinear(DefaultDriveDB)
		e.mix = smooth.NewLinear(DefaultMix)
		e.output = smooth.NewLinear(DefaultOutputDB)
	}

	storeFloat(&e.controls.drive, DefaultDriveDB)
	storeFloat(&e.controls.mix, DefaultMix)
	storeFloat(&e.controls.output, DefaultOutputDB)
	e.controls.model.Store(int32(cfg.model))
	e.controls.tone.Store(int32(cfg.tone))

	return e, nil
}

// Prepare configures the filters and ramps for spec and resets the engine.
// It allocates and must be called outside the real-time path.
func (e *Engine) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("fuzz: %w", err)
	}

	toneChannels := spec.NumChannels
	if e.cfg.sharedToneState {
		toneChannels = 1
	}

	dc, err := tpt.NewLinkwitzRiley(spec.SampleRate, spec.NumChannels, tpt.ModeHighpass, dcBlockCutoffHz)
	if err != nil {
		return fmt.Errorf("fuzz: dc filter: %w", err)
	}

	lowHz, highHz := e.tone.Cutoffs()

	toneLow, err := tpt.New(spec.SampleRate, toneChannels,
		tpt.WithTopology(e.cfg.toneTopology),
		tpt.WithMode(tpt.ModeLowpass),
		tpt.WithCutoff(lowHz),
	)
	if err != nil {
		return fmt.Errorf("fuzz: tone lowpass: %w", err)
	}

	toneHigh, err := tpt.New(spec.SampleRate, toneChannels,
		tpt.WithTopology(e.cfg.toneTopology),
		tpt.WithMode(tpt.ModeHighpass),
		tpt.WithCutoff(highHz),
	)
	if err != nil {
		return fmt.Errorf("fuzz: tone highpass: %w", err)
	}

	e.dc = dc
	e.toneLow = toneLow
	e.toneHigh = toneHigh

	e.drive.Reset(spec.SampleRate, e.cfg.rampSeconds)
	e.mix.Reset(spec.SampleRate, e.cfg.rampSeconds)
	e.output.Reset(spec.SampleRate, e.cfg.rampSeconds)

	e.spec = spec
	e.prepared = true
	e.Reset()

	return nil
}

// Reset clears all filter state and snaps drive to 0 dB, mix to 1 and
// output to 0 dB. Published control values are kept; the next block ramps
// from the defaults toward them.
func (e *Engine) Reset() {
	if e.dc != nil {
		e.dc.Reset()
		e.toneLow.Reset()
		e.toneHigh.Reset()
	}

	e.drive.SetImmediate(DefaultDriveDB)
	e.mix.SetImmediate(DefaultMix)
	e.output.SetImmediate(DefaultOutputDB)
	e.controls.dirty.Store(true)
}

// SetDrive sets the target input drive in [0, 24] dB.
func (e *Engine) SetDrive(db float64) error {
	if !core.InRange(db, MinDriveDB, MaxDriveDB) {
		return fmt.Errorf("fuzz: drive must be in [%g, %g] dB: %f", MinDriveDB, MaxDriveDB, db)
	}

	storeFloat(&e.controls.drive, db)
	e.controls.dirty.Store(true)

	return nil
}

// SetMix sets the target dry/wet mix in [0, 1].
func (e *Engine) SetMix(mix float64) error {
	if !core.InRange(mix, MinMix, MaxMix) {
		return fmt.Errorf("fuzz: mix must be in [%g, %g]: %f", MinMix, MaxMix, mix)
	}

	storeFloat(&e.controls.mix, mix)
	e.controls.dirty.Store(true)

	return nil
}

// SetOutput sets the target output trim in [-20, 20] dB.
func (e *Engine) SetOutput(db float64) error {
	if !core.InRange(db, MinOutputDB, MaxOutputDB) {
		return fmt.Errorf("fuzz: output must be in [%g, %g] dB: %f", MinOutputDB, MaxOutputDB, db)
	}

	storeFloat(&e.controls.output, db)
	e.controls.dirty.Store(true)

	return nil
}

// SetModel selects the waveshaping model. The switch is instantaneous at
// the next block and is not crossfaded.
func (e *Engine) SetModel(m Model) error {
	if !validModel(m) {
		return fmt.Errorf("fuzz: invalid model: %d", m)
	}

	e.controls.model.Store(int32(m))
	e.controls.dirty.Store(true)

	return nil
}

// SetToneCharacter selects the tone filter cutoffs.
func (e *Engine) SetToneCharacter(tone ToneCharacter) error {
	if !validTone(tone) {
		return fmt.Errorf("fuzz: invalid tone character: %d", tone)
	}

	e.controls.tone.Store(int32(tone))
	e.controls.dirty.Store(true)

	return nil
}

// Process renders src into dst. dst and src may alias. Samples are visited
// frame by frame, channel by channel. Channels beyond the prepared count are
// copied through, and dst channels without a source are cleared. Before
// Prepare the input is copied unchanged.
func (e *Engine) Process(dst, src [][]float64) {
	if !e.prepared {
		core.CopyChannels(dst, src)
		return
	}

	channels := min(len(dst), len(src), e.spec.NumChannels)
	frames := core.FrameCount(channels, dst, src)

	e.syncControls()

	locked := e.cfg.frameLockedRamps

	var f frame
	for n := 0; n < frames; n++ {
		if locked {
			e.nextFrame(&f)
		}

		for ch := 0; ch < channels; ch++ {
			if !locked {
				e.nextFrame(&f)
			}

			dst[ch][n] = e.render(ch, src[ch][n], &f)
		}
	}

	for ch := channels; ch < len(dst); ch++ {
		if ch < len(src) {
			core.CopyInto(dst[ch], src[ch])
		} else {
			core.Zero(dst[ch])
		}
	}
}

// ProcessInPlace renders buf in place.
func (e *Engine) ProcessInPlace(buf [][]float64) {
	e.Process(buf, buf)
}

// ProcessSample renders one sample on channel ch, advancing the ramps by
// one step. Unknown channels and an unprepared engine pass x through.
func (e *Engine) ProcessSample(ch int, x float64) float64 {
	if !e.prepared || ch < 0 || ch >= e.spec.NumChannels {
		return x
	}

	e.syncControls()

	var f frame
	e.nextFrame(&f)

	return e.render(ch, x, &f)
}

// Model returns the most recently selected model.
func (e *Engine) Model() Model { return Model(e.controls.model.Load()) }

// ToneCharacter returns the most recently selected tone character.
func (e *Engine) ToneCharacter() ToneCharacter { return ToneCharacter(e.controls.tone.Load()) }

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (e *Engine) SampleRate() float64 { return e.spec.SampleRate }

// Channels returns the prepared channel count, or 0 before Prepare.
func (e *Engine) Channels() int { return e.spec.NumChannels }

// Prepared reports whether Prepare has succeeded.
func (e *Engine) Prepared() bool { return e.prepared }

func (e *Engine) syncControls() {
	if !e.controls.dirty.Swap(false) {
		return
	}

	e.drive.SetTarget(loadFloat(&e.controls.drive))
	e.mix.SetTarget(loadFloat(&e.controls.mix))
	e.output.SetTarget(loadFloat(&e.controls.output))
	e.model = Model(e.controls.model.Load())

	if tone := ToneCharacter(e.controls.tone.Load()); tone != e.tone {
		e.applyTone(tone)
	}
}

func (e *Engine) applyTone(tone ToneCharacter) {
	e.tone = tone
	lowHz, highHz := tone.Cutoffs()
	e.toneLow.SetCutoff(lowHz)
	e.toneHigh.SetCutoff(highHz)
}

func (e *Engine) nextFrame(f *frame) {
	f.drive1 = e.gain(e.drive.Next())
	if e.cfg.singleDriveStep {
		f.drive2 = f.drive1
	} else {
		f.drive2 = e.gain(e.drive.Next())
	}

	if e.cfg.approxMode == ApproxFast {
		f.dry, f.wet = mixWeightsFast(e.mix.Next())
	} else {
		f.dry, f.wet = MixWeights(e.mix.Next())
	}

	f.out = e.gain(e.output.Next())
}

func (e *Engine) render(ch int, x float64, f *frame) float64 {
	if !core.IsFinite(x) {
		x = 0
	}

	dry := e.dc.ProcessSample(ch, x)
	wet := Shape(e.model, dry, f.drive1, f.drive2)

	toneCh := ch
	if e.cfg.sharedToneState {
		toneCh = 0
	}

	wet = e.toneLow.ProcessSample(toneCh, wet)
	wet = e.toneHigh.ProcessSample(toneCh, wet)

	return core.FlushDenormals((f.dry*dry + f.wet*wet) * f.out)
}

func (e *Engine) gain(db float64) float64 {
	if e.cfg.approxMode == ApproxFast {
		return gainFast(db)
	}
	return core.DecibelsToGain(db)
}
