package fuzz_test

import (
	"fmt"

	"github.com/cwbudde/algo-fuzz/dsp/core"
	"github.com/cwbudde/algo-fuzz/dsp/effects/fuzz"
)

func ExampleEngine_Process() {
	e, err := fuzz.New(
		fuzz.WithModel(fuzz.ModelRedux),
		fuzz.WithToneCharacter(fuzz.ToneDarker),
	)
	if err != nil {
		panic(err)
	}

	if err := e.Prepare(core.NewProcessSpec(core.WithSampleRate(48000), core.WithNumChannels(2))); err != nil {
		panic(err)
	}

	_ = e.SetDrive(18)
	_ = e.SetMix(0.8)

	buf := core.MakeChannels(2, 256)
	buf[0][0], buf[1][0] = 0.5, -0.5
	e.ProcessInPlace(buf)

	fmt.Println(buf[0][0] > 0, buf[1][0] < 0)
	// Output: true true
}

func ExampleEngine_SetParameter() {
	e, err := fuzz.New()
	if err != nil {
		panic(err)
	}

	// Host tone choices run from brightest (0) to darkest (4).
	if err := e.SetParameter(fuzz.ParamTone, 0); err != nil {
		panic(err)
	}

	fmt.Println(e.ToneCharacter())
	// Output: brightest
}

func ExampleMixWeights() {
	dry, wet := fuzz.MixWeights(0.5)
	fmt.Printf("%.4f %.4f\n", dry, wet)
	// Output: 0.7071 0.5946
}
