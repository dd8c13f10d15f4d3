package testutil

import "math"

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// MultiTone sums equal-amplitude sines at the given frequencies.
func MultiTone(freqsHz []float64, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	for _, f := range freqsHz {
		tone := DeterministicSine(f, sampleRate, amplitude, length)
		for i := range out {
			out[i] += tone[i]
		}
	}
	return out
}

// Polynomial applies y = x + a2*x^2 + a3*x^3 sample by sample, a memoryless
// nonlinearity that creates second and third order mixing terms.
func Polynomial(signal []float64, a2, a3 float64) []float64 {
	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = x + a2*x*x + a3*x*x*x
	}
	return out
}
