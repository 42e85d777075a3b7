package fuzz

import (
	"math"
	"testing"
)

func TestParamsTable(t *testing.T) {
	params := Params()
	if len(params) != 5 {
		t.Fatalf("len(Params()) = %d, want 5", len(params))
	}

	for _, p := range params {
		if p.Default < p.Min || p.Default > p.Max {
			t.Errorf("%v: default %v outside [%v, %v]", p.ID, p.Default, p.Min, p.Max)
		}
	}

	tone, err := ParamInfoFor(ParamTone)
	if err != nil {
		t.Fatalf("ParamInfoFor(tone) error = %v", err)
	}
	if !tone.IsChoice() || tone.Choices != 5 {
		t.Fatalf("tone info = %+v, want 5 choices", tone)
	}
	if got, _ := ToneFromChoice(int(tone.Default)); got != ToneNormal {
		t.Fatalf("default tone = %v, want normal", got)
	}

	model, _ := ParamInfoFor(ParamModel)
	if got, _ := ModelFromChoice(int(model.Default)); got != ModelHard {
		t.Fatalf("default model = %v, want hard", got)
	}

	drive, _ := ParamInfoFor(ParamDrive)
	if drive.IsChoice() || drive.Max != 24 {
		t.Fatalf("drive info = %+v", drive)
	}

	if _, err := ParamInfoFor(ParamID(10)); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestSetParameterRoundTrip(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		id    ParamID
		value float64
		want  float64
	}{
		{ParamModel, 1.6, 2},
		{ParamModel, 0.2, 0},
		{ParamDrive, 7.5, 7.5},
		{ParamMix, 0.25, 0.25},
		{ParamOutput, -12, -12},
		{ParamTone, 0, 0},
		{ParamTone, 3.9, 4},
	}

	for _, tt := range tests {
		if err := e.SetParameter(tt.id, tt.value); err != nil {
			t.Fatalf("SetParameter(%v, %v) error = %v", tt.id, tt.value, err)
		}

		got, err := e.Parameter(tt.id)
		if err != nil {
			t.Fatalf("Parameter(%v) error = %v", tt.id, err)
		}
		if got != tt.want {
			t.Fatalf("Parameter(%v) = %v, want %v", tt.id, got, tt.want)
		}
	}

	if e.ToneCharacter() != ToneDarkest {
		t.Fatalf("ToneCharacter() = %v, want darkest", e.ToneCharacter())
	}
	if e.Model() != ModelHard {
		t.Fatalf("Model() = %v, want hard", e.Model())
	}
}

func TestSetParameterErrors(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		id    ParamID
		value float64
	}{
		{ParamModel, 3},
		{ParamModel, -1},
		{ParamTone, 5},
		{ParamDrive, 30},
		{ParamMix, -0.1},
		{ParamOutput, 21},
		{ParamID(99), 0},
		{ParamModel, math.NaN()},
		{ParamTone, math.NaN()},
		{ParamModel, math.Inf(1)},
		{ParamTone, math.Inf(-1)},
		{ParamDrive, math.NaN()},
	}

	mustSet(t, e.SetModel(ModelFat))
	mustSet(t, e.SetToneCharacter(ToneDarkest))

	for _, tt := range tests {
		if err := e.SetParameter(tt.id, tt.value); err == nil {
			t.Errorf("SetParameter(%v, %v): expected error", tt.id, tt.value)
		}
	}

	if e.Model() != ModelFat || e.ToneCharacter() != ToneDarkest {
		t.Fatalf("rejected values changed selection: model=%v tone=%v", e.Model(), e.ToneCharacter())
	}

	if _, err := e.Parameter(ParamID(99)); err == nil {
		t.Fatal("Parameter(unknown): expected error")
	}
}

func TestParseNames(t *testing.T) {
	for _, m := range Models() {
		if got, err := ParseModel(m.String()); err != nil || got != m {
			t.Fatalf("ParseModel(%q) = %v, %v", m.String(), got, err)
		}
	}
	for _, tone := range ToneCharacters() {
		if got, err := ParseToneCharacter(tone.String()); err != nil || got != tone {
			t.Fatalf("ParseToneCharacter(%q) = %v, %v", tone.String(), got, err)
		}
	}
	for id := ParamModel; id <= ParamTone; id++ {
		if got, err := ParseParamID(id.String()); err != nil || got != id {
			t.Fatalf("ParseParamID(%q) = %v, %v", id.String(), got, err)
		}
	}

	if got, err := ParseModel("Redux"); err != nil || got != ModelRedux {
		t.Fatalf("ParseModel(Redux) = %v, %v", got, err)
	}
	if _, err := ParseModel("fuzzface"); err == nil {
		t.Fatal("expected error for unknown model")
	}
	if _, err := ParseToneCharacter("dark"); err == nil {
		t.Fatal("expected error for unknown tone")
	}
	if _, err := ParseParamID("volume"); err == nil {
		t.Fatal("expected error for unknown parameter")
	}

	if i, err := ToneChoice(ToneNormal); err != nil || i != 2 {
		t.Fatalf("ToneChoice(normal) = %d, %v; want 2", i, err)
	}
	if _, err := ToneChoice(ToneCharacter(11)); err == nil {
		t.Fatal("expected error for invalid tone")
	}
}
