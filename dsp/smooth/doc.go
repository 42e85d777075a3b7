// Package smooth provides sample-accurate parameter ramps for real-time
// processing.
//
// A Ramp turns target changes coming from a control thread into a fixed
// number of interpolation steps consumed by the audio thread, so gain and
// drive changes never produce clicks. Two curves are available:
//   - ShapeLinear: constant increment per step.
//   - ShapeLog: logarithmic/exponential approach with a configurable mid
//     point, useful for crossfades and perceptually scaled moves.
//
// Every ramp lands exactly on its target after the configured number of
// steps. Ramps are plain values with no internal synchronisation and never
// allocate.
package smooth
