package intermod

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-imd/internal/testutil"
)

func TestCalculateFromMagnitudeKnownSpectrum(t *testing.T) {
	cfg := Config{
		SampleRate: 48000,
		FFTSize:    48000,
		Tones:      []float64{1000, 1100},
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 1.0
	mag[1100] = 1.0
	mag[900] = 0.01 * 0.01  // 2f1-f2
	mag[1200] = 0.02 * 0.02 // 2f2-f1
	mag[4500] = 0.5 * 0.5   // not a product, ignored

	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	res := calc.CalculateFromMagnitude(mag)

	testutil.RequireNearlyEqual(t, "ReferenceLevel", res.ReferenceLevel, 1, 1e-12)

	if len(res.Products) != 4 {
		t.Fatalf("product bins = %d, want 4", len(res.Products))
	}

	wantBins := []int{900, 1200, 3100, 3200}
	wantRel := []float64{0.01, 0.02, 0, 0}

	for i, pl := range res.Products {
		if pl.Bin != wantBins[i] {
			t.Fatalf("product %d bin = %d, want %d", i, pl.Bin, wantBins[i])
		}
		if pl.Order != 3 {
			t.Fatalf("product %d order = %d, want 3", i, pl.Order)
		}
		testutil.RequireNearlyEqual(t, "Relative", pl.Relative, wantRel[i], 1e-12)
	}

	testutil.RequireNearlyEqual(t, "Level_dB", res.Products[0].Level_dB, -40, 1e-9)
	testutil.RequireNearlyEqual(t, "IMD", res.IMD, math.Sqrt(0.0005), 1e-12)
	testutil.RequireNearlyEqual(t, "ByOrder[3]", res.ByOrder[3], math.Sqrt(0.0005), 1e-12)

	if !math.IsInf(res.Products[2].Level_dB, -1) {
		t.Fatalf("silent bin dB = %v, want -Inf", res.Products[2].Level_dB)
	}
}

func TestCalculateFromMagnitudeRange(t *testing.T) {
	cfg := Config{
		SampleRate:     48000,
		FFTSize:        48000,
		Tones:          []float64{1000, 1100},
		RangeLowerFreq: 1000,
		RangeUpperFreq: 2000,
	}

	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	res := calc.CalculateFromMagnitude(make([]float64, cfg.FFTSize/2+1))
	if len(res.Products) != 1 || res.Products[0].Bin != 1200 {
		t.Fatalf("products = %+v, want only bin 1200", res.Products)
	}
}

func TestProductsOnToneBinsAreSkipped(t *testing.T) {
	cfg := Config{
		SampleRate: 48000,
		FFTSize:    48000,
		Tones:      []float64{1000, 1100, 1200},
	}

	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	res := calc.CalculateFromMagnitude(make([]float64, cfg.FFTSize/2+1))
	for _, pl := range res.Products {
		if pl.Bin == 1000 || pl.Bin == 1100 || pl.Bin == 1200 {
			t.Fatalf("product measured on tone bin %d", pl.Bin)
		}
	}
}

func TestSharedBinListsEveryMix(t *testing.T) {
	cfg := Config{
		SampleRate: 48000,
		FFTSize:    48000,
		Tones:      []float64{1000, 1100, 1200},
	}

	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	res := calc.CalculateFromMagnitude(make([]float64, cfg.FFTSize/2+1))
	for _, pl := range res.Products {
		if pl.Bin != 1300 {
			continue
		}
		// 2*1200-1100 and 1100+1200-1000.
		if len(pl.Mixes) != 2 {
			t.Fatalf("bin 1300 mixes = %v, want 2", pl.Mixes)
		}
		return
	}
	t.Fatal("no product measured at bin 1300")
}

func TestAnalyzeSignalCubicNonlinearity(t *testing.T) {
	sr := 48000.0
	n := 4096
	binHz := sr / float64(n)

	f1 := 64 * binHz
	f2 := 80 * binHz
	amp := 0.5
	a3 := 0.1

	signal := testutil.Polynomial(testutil.MultiTone([]float64{f1, f2}, sr, amp, n), 0, a3)

	res, err := AnalyzeSignal(signal, Config{
		SampleRate: sr,
		FFTSize:    n,
		Tones:      []float64{f1, f2},
	})
	if err != nil {
		t.Fatalf("AnalyzeSignal: %v", err)
	}

	tone := amp + 2.25*a3*amp*amp*amp
	im3 := 0.75 * a3 * amp * amp * amp
	want := im3 / tone

	if len(res.Products) != 4 {
		t.Fatalf("product bins = %d, want 4", len(res.Products))
	}

	for _, pl := range res.Products {
		testutil.RequireNearlyEqual(t, "Relative", pl.Relative, want, 1e-9)
	}

	testutil.RequireNearlyEqual(t, "IMD", res.IMD, 2*want, 1e-9)
}

func TestAnalyzeSignalLinearHasNoIMD(t *testing.T) {
	sr := 48000.0
	n := 2048
	binHz := sr / float64(n)

	tones := []float64{40 * binHz, 52 * binHz}
	signal := testutil.MultiTone(tones, sr, 0.5, n)

	res, err := AnalyzeSignal(signal, Config{SampleRate: sr, Tones: tones, MaxOrder: 5})
	if err != nil {
		t.Fatalf("AnalyzeSignal: %v", err)
	}

	if res.IMD > 1e-9 {
		t.Fatalf("IMD = %v, want ~0", res.IMD)
	}

	if _, ok := res.ByOrder[5]; !ok {
		t.Fatal("expected fifth order products to be measured")
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := NewCalculator(Config{SampleRate: 48000}); !errors.Is(err, ErrNoTones) {
		t.Fatalf("error = %v, want ErrNoTones", err)
	}

	if _, err := NewCalculator(Config{Tones: []float64{1000}}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want ErrInvalidSampleRate", err)
	}

	if _, err := AnalyzeSignal(nil, Config{SampleRate: 48000, Tones: []float64{1000}}); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("error = %v, want ErrEmptySignal", err)
	}
}

func TestNormalizeConfigMaxOrder(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 3},
		{3, 3},
		{6, 5},
		{7, 7},
	}

	for _, tt := range tests {
		cfg := normalizeConfig(Config{MaxOrder: tt.in})
		if cfg.MaxOrder != tt.want {
			t.Fatalf("MaxOrder %d normalized to %d, want %d", tt.in, cfg.MaxOrder, tt.want)
		}
	}
}
