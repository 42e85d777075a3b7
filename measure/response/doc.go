// Package response measures the magnitude response of a rendered impulse
// response: per-bin magnitude and power, levels at a frequency and band
// energy.
package response
