// Package intermod measures intermodulation distortion in a multi-tone
// signal.
//
// The product frequencies come from package imd: every odd order from 3 up
// to Config.MaxOrder is enumerated for the configured tones, folded onto the
// positive frequency axis and measured at its FFT bin. Levels are reported
// relative to the mean tone level.
package intermod
