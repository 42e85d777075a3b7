// Package fuzz provides a real-time fuzz distortion processor.
//
// Per sample, Engine runs:
//
//	input -> 10 Hz Linkwitz-Riley DC blocker -> model (drive, clip, trim)
//	      -> tone lowpass -> tone highpass -> dry/wet mix -> output trim
//
// Models:
//   - ModelHard:  (x*g)^2 + x*g, clipped at 0.99, -6 dB.
//   - ModelRedux: (x*g)^3 + x*g, clipped peaks folded to 3*0.99, -20 dB.
//   - ModelFat:   (x*g)^3 + x*g, clipped peaks folded to 0.7*0.99, -8 dB.
//
// The mix law is dry = cos(m*pi/2), wet = sin(m*pi/2)^1.5. Drive, mix and
// output follow 20 ms ramps (package smooth). Tone characters pick fixed
// lowpass/highpass cutoff pairs from 900 Hz up to 20 kHz.
//
// Each model reads the drive ramp twice per sample, so a drive change
// settles in half the ramp time; WithSingleDriveStep reads it once. Ramps
// advance once per channel-sample unless WithFrameLockedRamps is given.
//
// Setters publish values atomically and may be called from any goroutine;
// the processing goroutine applies them at the start of the next block.
// Process, ProcessInPlace and ProcessSample never allocate, block or panic.
package fuzz
