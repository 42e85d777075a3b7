// Package tpt provides topology-preserving-transform (zero-delay feedback)
// filters for per-sample processing.
//
// Filter offers two structures sharing one state-update scheme:
//   - TopologyStateVariable: two-pole state variable filter with lowpass,
//     highpass and bandpass outputs; Butterworth at the default Q of 1/sqrt2.
//   - TopologyOnePole: single-pole lowpass/highpass pair.
//
// Cutoffs are pre-warped with tan(pi*fc/fs), so the analog response is
// matched exactly at the cutoff. LinkwitzRiley cascades two Butterworth
// stages for a 24 dB/oct slope with -6 dB at the cutoff.
//
// State is held per channel and persists across calls until Reset or
// Prepare. ProcessSample never allocates.
package tpt
