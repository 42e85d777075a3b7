package fuzz

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fuzz/dsp/core"
)

// ParamID identifies a host-facing control. The host maps its own string
// identifiers onto these values.
type ParamID int

const (
	ParamModel ParamID = iota
	ParamDrive
	ParamMix
	ParamOutput
	ParamTone
)

func (id ParamID) String() string {
	switch id {
	case ParamModel:
		return "model"
	case ParamDrive:
		return "drive"
	case ParamMix:
		return "mix"
	case ParamOutput:
		return "output"
	case ParamTone:
		return "tone"
	default:
		return "unknown"
	}
}

// ParseParamID maps a case-insensitive control name to a ParamID.
func ParseParamID(name string) (ParamID, error) {
	for id := ParamModel; id <= ParamTone; id++ {
		if strings.EqualFold(name, id.String()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("fuzz: unknown parameter: %q", name)
}

// ToneChoice returns the host choice index of tone.
func ToneChoice(tone ToneCharacter) (int, error) {
	for i, t := range ToneCharacters() {
		if t == tone {
			return i, nil
		}
	}
	return 0, fmt.Errorf("fuzz: invalid tone character: %d", tone)
}

// Control ranges in dB (drive, output) or linear units (mix).
const (
	MinDriveDB  = 0.0
	MaxDriveDB  = 24.0
	MinMix      = 0.0
	MaxMix      = 1.0
	MinOutputDB = -20.0
	MaxOutputDB = 20.0

	DefaultDriveDB  = 0.0
	DefaultMix      = 1.0
	DefaultOutputDB = 0.0
)

// ParamInfo describes one control: its range, default, and for choice
// controls the number of choices. Choice values are indices.
type ParamInfo struct {
	ID      ParamID
	Min     float64
	Max     float64
	Default float64
	Choices int
}

// IsChoice reports whether the control selects from a list.
func (p ParamInfo) IsChoice() bool { return p.Choices > 0 }

// Params returns the control table in host registration order.
func Params() []ParamInfo {
	return []ParamInfo{
		{ID: ParamModel, Min: 0, Max: float64(len(Models()) - 1), Default: 0, Choices: len(Models())},
		{ID: ParamDrive, Min: MinDriveDB, Max: MaxDriveDB, Default: DefaultDriveDB},
		{ID: ParamMix, Min: MinMix, Max: MaxMix, Default: DefaultMix},
		{ID: ParamOutput, Min: MinOutputDB, Max: MaxOutputDB, Default: DefaultOutputDB},
		{ID: ParamTone, Min: 0, Max: float64(len(ToneCharacters()) - 1), Default: 2, Choices: len(ToneCharacters())},
	}
}

// ParamInfoFor returns the table entry for id.
func ParamInfoFor(id ParamID) (ParamInfo, error) {
	for _, p := range Params() {
		if p.ID == id {
			return p, nil
		}
	}
	return ParamInfo{}, fmt.Errorf("fuzz: unknown parameter: %d", id)
}

// ModelFromChoice maps a host choice index (Hard, Redux, Fat) to a Model.
func ModelFromChoice(index int) (Model, error) {
	models := Models()
	if index < 0 || index >= len(models) {
		return 0, fmt.Errorf("fuzz: model choice out of range: %d", index)
	}
	return models[index], nil
}

// ToneFromChoice maps a host choice index (Brightest, Brighter, Normal,
// Darker, Darkest) to a ToneCharacter.
func ToneFromChoice(index int) (ToneCharacter, error) {
	tones := ToneCharacters()
	if index < 0 || index >= len(tones) {
		return 0, fmt.Errorf("fuzz: tone choice out of range: %d", index)
	}
	return tones[index], nil
}

// SetParameter routes a host value to the matching setter. Choice controls
// take the choice index, rounded to the nearest integer. Non-finite values
// are rejected.
func (e *Engine) SetParameter(id ParamID, value float64) error {
	if !core.IsFinite(value) {
		return fmt.Errorf("fuzz: %s value must be finite: %f", id, value)
	}

	switch id {
	case ParamModel:
		m, err := ModelFromChoice(int(math.Round(value)))
		if err != nil {
			return err
		}
		return e.SetModel(m)
	case ParamDrive:
		return e.SetDrive(value)
	case ParamMix:
		return e.SetMix(value)
	case ParamOutput:
		return e.SetOutput(value)
	case ParamTone:
		tone, err := ToneFromChoice(int(math.Round(value)))
		if err != nil {
			return err
		}
		return e.SetToneCharacter(tone)
	default:
		return fmt.Errorf("fuzz: unknown parameter: %d", id)
	}
}

// Parameter returns the last published value of id in host units.
func (e *Engine) Parameter(id ParamID) (float64, error) {
	switch id {
	case ParamModel:
		return float64(e.controls.model.Load()), nil
	case ParamDrive:
		return loadFloat(&e.controls.drive), nil
	case ParamMix:
		return loadFloat(&e.controls.mix), nil
	case ParamOutput:
		return loadFloat(&e.controls.output), nil
	case ParamTone:
		i, err := ToneChoice(ToneCharacter(e.controls.tone.Load()))
		return float64(i), err
	default:
		return 0, fmt.Errorf("fuzz: unknown parameter: %d", id)
	}
}
