// Package render runs the fuzz engine offline the way a plugin host would:
// fixed-size blocks, control changes published between blocks, and a
// summary of the rendered audio.
package render

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/cwbudde/algo-fuzz/dsp/effects/fuzz"
	"github.com/cwbudde/algo-fuzz/dsp/signal"
)

// Report summarizes one render.
type Report struct {
	SampleRate   float64
	Channels     int
	Frames       int
	Blocks       int
	Events       int
	InputPeakDB  float64
	OutputPeakDB float64
	OutputRMSDB  float64
	Elapsed      time.Duration
}

// RealTimeFactor returns rendered audio time over wall time.
func (r Report) RealTimeFactor() float64 {
	if r.Elapsed <= 0 || r.SampleRate <= 0 {
		return math.Inf(1)
	}
	return float64(r.Frames) / r.SampleRate / r.Elapsed.Seconds()
}

type action struct {
	frame int
	id    fuzz.ParamID
	value float64
}

// Run renders cfg. Rendered audio goes to w as interleaved little-endian
// float32 when w is non-nil. Automation events take effect at the start of
// the block containing their frame. A nil logger discards log output.
func Run(ctx context.Context, cfg Config, w io.Writer, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid config: %w", err)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return Report{}, err
	}

	engine, err := fuzz.New(opts...)
	if err != nil {
		return Report{}, fmt.Errorf("create engine: %w", err)
	}

	spec := core.NewProcessSpec(
		core.WithSampleRate(cfg.SampleRate),
		core.WithMaxBlockSize(cfg.BlockSize),
		core.WithNumChannels(cfg.Channels),
	)
	if err := engine.Prepare(spec); err != nil {
		return Report{}, fmt.Errorf("prepare engine: %w", err)
	}

	if err := publishControls(engine, cfg.Controls); err != nil {
		return Report{}, err
	}

	frames := cfg.Frames()
	input, err := generateInput(cfg, frames)
	if err != nil {
		return Report{}, err
	}

	actions, err := compileAutomation(cfg)
	if err != nil {
		return Report{}, err
	}

	logger.Debug("render start",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"frames", frames,
		"block_size", cfg.BlockSize,
		"events", len(actions),
	)

	rep := Report{
		SampleRate:  cfg.SampleRate,
		Channels:    cfg.Channels,
		Frames:      frames,
		Events:      len(actions),
		InputPeakDB: core.GainToDecibels(peakOf(input)),
	}

	out := core.MakeChannels(cfg.Channels, cfg.BlockSize)
	interleaved := make([]float64, cfg.BlockSize*cfg.Channels)
	pcm := make([]float32, cfg.BlockSize*cfg.Channels)
	src := make([][]float64, cfg.Channels)
	dst := make([][]float64, cfg.Channels)

	var peak, sumSq float64
	next := 0
	start := time.Now()

	for pos := 0; pos < frames; pos += cfg.BlockSize {
		if err := ctx.Err(); err != nil {
			return Report{}, fmt.Errorf("render cancelled at frame %d: %w", pos, err)
		}

		n := min(cfg.BlockSize, frames-pos)

		for next < len(actions) && actions[next].frame < pos+n {
			a := actions[next]
			if err := engine.SetParameter(a.id, a.value); err != nil {
				return Report{}, fmt.Errorf("automation at frame %d: %w", a.frame, err)
			}
			logger.Debug("automation", "param", a.id.String(), "value", a.value, "frame", a.frame, "block_start", pos)
			next++
		}

		for ch := range src {
			src[ch] = input[ch][pos : pos+n]
			dst[ch] = out[ch][:n]
		}

		engine.Process(dst, src)
		rep.Blocks++

		for ch := range dst {
			for _, v := range dst[ch] {
				peak = max(peak, math.Abs(v))
				sumSq += v * v
			}
		}

		if w != nil {
			if err := writeBlock(w, dst, interleaved, pcm); err != nil {
				return Report{}, err
			}
		}
	}

	rep.Elapsed = time.Since(start)
	rep.OutputPeakDB = core.GainToDecibels(peak)
	if total := frames * cfg.Channels; total > 0 {
		rep.OutputRMSDB = core.GainToDecibels(math.Sqrt(sumSq / float64(total)))
	}

	logger.Debug("render done", "blocks", rep.Blocks, "elapsed", rep.Elapsed)

	return rep, nil
}

func publishControls(e *fuzz.Engine, c ControlsConfig) error {
	if err := e.SetDrive(c.DriveDB); err != nil {
		return err
	}
	if err := e.SetMix(c.Mix); err != nil {
		return err
	}
	return e.SetOutput(c.OutputDB)
}

// generateInput renders one signal per channel. Noise channels get
// successive seeds so they are decorrelated.
func generateInput(cfg Config, frames int) ([][]float64, error) {
	params, err := cfg.signalParams()
	if err != nil {
		return nil, err
	}

	input := make([][]float64, cfg.Channels)
	for ch := range input {
		gen, err := signal.NewGenerator(cfg.SampleRate, signal.WithSeed(cfg.Signal.Seed+int64(ch)))
		if err != nil {
			return nil, fmt.Errorf("signal generator: %w", err)
		}

		input[ch], err = gen.Generate(params, frames)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", params.Kind, err)
		}
	}

	return input, nil
}

func compileAutomation(cfg Config) ([]action, error) {
	actions := make([]action, 0, len(cfg.Automation))
	for i, ev := range cfg.Automation {
		id, value, err := ev.resolve()
		if err != nil {
			return nil, fmt.Errorf("automation[%d]: %w", i, err)
		}
		actions = append(actions, action{
			frame: int(math.Round(ev.AtSec * cfg.SampleRate)),
			id:    id,
			value: value,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool { return actions[i].frame < actions[j].frame })

	return actions, nil
}

func writeBlock(w io.Writer, channels [][]float64, interleaved []float64, pcm []float32) error {
	interleaved = core.Interleave(interleaved, channels)
	pcm = pcm[:len(interleaved)]
	for i, v := range interleaved {
		pcm[i] = float32(v)
	}

	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	return nil
}

func peakOf(channels [][]float64) float64 {
	peak := 0.0
	for _, ch := range channels {
		for _, v := range ch {
			peak = max(peak, math.Abs(v))
		}
	}
	return peak
}
