package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/cwbudde/algo-fuzz/dsp/effects/fuzz"
	"github.com/cwbudde/algo-fuzz/dsp/filter/tpt"
	"github.com/cwbudde/algo-fuzz/dsp/signal"
	"github.com/cwbudde/algo-fuzz/dsp/smooth"
)

// Config is the YAML description of one offline render.
type Config struct {
	SampleRate  float64 `yaml:"sample_rate"`
	BlockSize   int     `yaml:"block_size"`
	Channels    int     `yaml:"channels"`
	DurationSec float64 `yaml:"duration_sec"`

	Engine     EngineConfig   `yaml:"engine"`
	Controls   ControlsConfig `yaml:"controls"`
	Signal     SignalConfig   `yaml:"signal"`
	Automation []Event        `yaml:"automation,omitempty"`
	Output     OutputConfig   `yaml:"output"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// EngineConfig maps onto fuzz.Option values.
type EngineConfig struct {
	RampMS           float64 `yaml:"ramp_ms"`
	RampShape        string  `yaml:"ramp_shape"`    // "linear" or "log"
	Math             string  `yaml:"math"`          // "exact" or "fast"
	ToneTopology     string  `yaml:"tone_topology"` // "svf" or "one-pole"
	SingleDriveStep  bool    `yaml:"single_drive_step"`
	FrameLockedRamps bool    `yaml:"frame_locked_ramps"`
	SharedToneState  bool    `yaml:"shared_tone_state"`
}

// ControlsConfig holds the control values published before the first block.
type ControlsConfig struct {
	Model    string  `yaml:"model"`
	Tone     string  `yaml:"tone"`
	DriveDB  float64 `yaml:"drive_db"`
	Mix      float64 `yaml:"mix"`
	OutputDB float64 `yaml:"output_db"`
}

// SignalConfig selects the generated input.
type SignalConfig struct {
	Kind           string  `yaml:"kind"` // silence, sine, noise, impulse, sweep
	FrequencyHz    float64 `yaml:"frequency_hz"`
	EndFrequencyHz float64 `yaml:"end_frequency_hz"`
	Amplitude      float64 `yaml:"amplitude"`
	Seed           int64   `yaml:"seed"`
}

// Event changes one control at a point in time. Value is a number for
// drive, mix and output, and a name or host choice index for model and
// tone.
type Event struct {
	AtSec float64 `yaml:"at_sec"`
	Param string  `yaml:"param"`
	Value string  `yaml:"value"`
}

// OutputConfig selects where rendered audio goes. An empty path discards
// it. Audio is written as interleaved little-endian float32.
type OutputConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully populated Config: one second of a 220 Hz
// sine through the default engine at 48 kHz stereo.
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		BlockSize:   512,
		Channels:    2,
		DurationSec: 1,
		Engine: EngineConfig{
			RampMS:       20,
			RampShape:    smooth.ShapeLinear.String(),
			Math:         fuzz.ApproxExact.String(),
			ToneTopology: "svf",
		},
		Controls: ControlsConfig{
			Model:    fuzz.ModelHard.String(),
			Tone:     fuzz.ToneNormal.String(),
			DriveDB:  fuzz.DefaultDriveDB,
			Mix:      fuzz.DefaultMix,
			OutputDB: fuzz.DefaultOutputDB,
		},
		Signal: SignalConfig{
			Kind:        signal.KindSine.String(),
			FrequencyHz: 220,
			Amplitude:   0.5,
			Seed:        1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file on top of DefaultConfig.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	return Parse(b)
}

// Parse decodes YAML on top of DefaultConfig. Unknown fields and trailing
// documents are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// Validate checks config invariants and returns a user-facing error.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample_rate must be > 0")
	}
	if c.BlockSize <= 0 {
		return errors.New("block_size must be > 0")
	}
	if c.Channels <= 0 {
		return errors.New("channels must be > 0")
	}
	if c.DurationSec <= 0 || c.Frames() <= 0 {
		return errors.New("duration_sec must cover at least one frame")
	}

	if _, err := c.EngineOptions(); err != nil {
		return err
	}

	if !core.InRange(c.Controls.DriveDB, fuzz.MinDriveDB, fuzz.MaxDriveDB) {
		return fmt.Errorf("controls.drive_db must be in [%g, %g]", fuzz.MinDriveDB, fuzz.MaxDriveDB)
	}
	if !core.InRange(c.Controls.Mix, fuzz.MinMix, fuzz.MaxMix) {
		return fmt.Errorf("controls.mix must be in [%g, %g]", fuzz.MinMix, fuzz.MaxMix)
	}
	if !core.InRange(c.Controls.OutputDB, fuzz.MinOutputDB, fuzz.MaxOutputDB) {
		return fmt.Errorf("controls.output_db must be in [%g, %g]", fuzz.MinOutputDB, fuzz.MaxOutputDB)
	}

	if _, err := c.signalParams(); err != nil {
		return err
	}

	if c.Signal.Amplitude < 0 {
		return errors.New("signal.amplitude must be >= 0")
	}

	for i, ev := range c.Automation {
		if !(ev.AtSec >= 0 && ev.AtSec < c.DurationSec) {
			return fmt.Errorf("automation[%d].at_sec must be in [0, duration_sec)", i)
		}
		if _, _, err := ev.resolve(); err != nil {
			return fmt.Errorf("automation[%d]: %w", i, err)
		}
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// Frames returns the render length in frames.
func (c *Config) Frames() int {
	return int(c.DurationSec * c.SampleRate)
}

// EngineOptions converts the engine and initial control sections into
// constructor options.
func (c *Config) EngineOptions() ([]fuzz.Option, error) {
	if c.Engine.RampMS < 0 {
		return nil, errors.New("engine.ramp_ms must be >= 0")
	}

	opts := []fuzz.Option{fuzz.WithRampTime(c.Engine.RampMS / 1000)}

	switch strings.ToLower(c.Engine.RampShape) {
	case "", "linear":
	case "log":
		opts = append(opts, fuzz.WithRampShape(smooth.ShapeLog))
	default:
		return nil, fmt.Errorf("engine.ramp_shape must be %q or %q", "linear", "log")
	}

	switch strings.ToLower(c.Engine.Math) {
	case "", "exact":
	case "fast":
		opts = append(opts, fuzz.WithApproxMode(fuzz.ApproxFast))
	default:
		return nil, fmt.Errorf("engine.math must be %q or %q", "exact", "fast")
	}

	switch strings.ToLower(c.Engine.ToneTopology) {
	case "", "svf":
	case "one-pole":
		opts = append(opts, fuzz.WithToneTopology(tpt.TopologyOnePole))
	default:
		return nil, fmt.Errorf("engine.tone_topology must be %q or %q", "svf", "one-pole")
	}

	if c.Engine.SingleDriveStep {
		opts = append(opts, fuzz.WithSingleDriveStep())
	}
	if c.Engine.FrameLockedRamps {
		opts = append(opts, fuzz.WithFrameLockedRamps())
	}
	if c.Engine.SharedToneState {
		opts = append(opts, fuzz.WithSharedToneState())
	}

	model, err := fuzz.ParseModel(c.Controls.Model)
	if err != nil {
		return nil, fmt.Errorf("controls.model: %w", err)
	}

	tone, err := fuzz.ParseToneCharacter(c.Controls.Tone)
	if err != nil {
		return nil, fmt.Errorf("controls.tone: %w", err)
	}

	if _, err := fuzz.New(opts...); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return append(opts, fuzz.WithModel(model), fuzz.WithToneCharacter(tone)), nil
}

func (c *Config) signalParams() (signal.Params, error) {
	kind, err := signal.ParseKind(c.Signal.Kind)
	if err != nil {
		return signal.Params{}, fmt.Errorf("signal.kind: %w", err)
	}

	return signal.Params{
		Kind:         kind,
		Frequency:    c.Signal.FrequencyHz,
		EndFrequency: c.Signal.EndFrequencyHz,
		Amplitude:    c.Signal.Amplitude,
	}, nil
}

// resolve maps the event onto a control and a host value.
func (ev Event) resolve() (fuzz.ParamID, float64, error) {
	id, err := fuzz.ParseParamID(ev.Param)
	if err != nil {
		return 0, 0, err
	}

	value, numErr := strconv.ParseFloat(strings.TrimSpace(ev.Value), 64)

	switch id {
	case fuzz.ParamModel:
		if numErr == nil {
			break
		}
		m, err := fuzz.ParseModel(ev.Value)
		if err != nil {
			return 0, 0, err
		}
		value = float64(m)
	case fuzz.ParamTone:
		if numErr == nil {
			break
		}
		tone, err := fuzz.ParseToneCharacter(ev.Value)
		if err != nil {
			return 0, 0, err
		}
		choice, err := fuzz.ToneChoice(tone)
		if err != nil {
			return 0, 0, err
		}
		value = float64(choice)
	default:
		if numErr != nil {
			return 0, 0, fmt.Errorf("%s value must be a number: %q", id, ev.Value)
		}
	}

	info, err := fuzz.ParamInfoFor(id)
	if err != nil {
		return 0, 0, err
	}
	if value < info.Min || value > info.Max {
		return 0, 0, fmt.Errorf("%s value %g outside [%g, %g]", id, value, info.Min, info.Max)
	}

	return id, value, nil
}
