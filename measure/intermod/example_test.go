package intermod_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-imd/measure/intermod"
)

func ExampleAnalyzeSignal() {
	sampleRate := 48000.0
	fftSize := 4096
	binHz := sampleRate / float64(fftSize)
	f1, f2 := 64*binHz, 80*binHz

	signal := make([]float64, fftSize)
	for i := range signal {
		t := float64(i) / sampleRate
		x := 0.5*math.Sin(2*math.Pi*f1*t) + 0.5*math.Sin(2*math.Pi*f2*t)
		signal[i] = x + 0.1*x*x*x
	}

	res, err := intermod.AnalyzeSignal(signal, intermod.Config{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Tones:      []float64{f1, f2},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("IMD: %.2f dB\n", res.IMD_dB)
	fmt.Printf("%.1f Hz: %.2f dBc\n", res.Products[0].Frequency, res.Products[0].Level_dB)
	// Output:
	// IMD: -28.99 dB
	// 562.5 Hz: -35.02 dBc
}
