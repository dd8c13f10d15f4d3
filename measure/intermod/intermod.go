package intermod

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-imd/imd"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const defaultMaxOrder = 3

var (
	ErrNoTones           = errors.New("intermod: at least one tone is required")
	ErrInvalidSampleRate = errors.New("intermod: sample rate must be positive")
	ErrEmptySignal       = errors.New("intermod: signal is empty")
)

// Config holds IMD measurement parameters.
type Config struct {
	SampleRate     float64
	FFTSize        int
	Tones          []float64
	MaxOrder       int
	CaptureBins    int
	RangeLowerFreq float64
	RangeUpperFreq float64
}

// ProductLevel is the measured level at one product bin. Several mixes can
// land on the same bin; all of them are listed and Order is the lowest.
//
//nolint:revive
type ProductLevel struct {
	Frequency float64
	Bin       int
	Order     int
	Mixes     imd.Products
	Level     float64
	Relative  float64
	Level_dB  float64
}

// Result holds IMD measurement results.
//
//nolint:revive
type Result struct {
	ToneLevels     []float64
	ReferenceLevel float64
	Products       []ProductLevel
	ByOrder        map[int]float64
	IMD            float64
	IMD_dB         float64
}

// Calculator measures IMD products for a fixed tone set.
type Calculator struct {
	cfg   Config
	mixes map[int]imd.Products
}

// NewCalculator validates cfg and enumerates the products to measure.
func NewCalculator(cfg Config) (*Calculator, error) {
	if len(cfg.Tones) == 0 {
		return nil, ErrNoTones
	}

	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	cfg = normalizeConfig(cfg)

	e, err := imd.New(cfg.Tones)
	if err != nil {
		return nil, fmt.Errorf("intermod: %w", err)
	}

	mixes := make(map[int]imd.Products)

	for order := imd.MinOrder; order <= cfg.MaxOrder; order += 2 {
		products, err := e.Calculate(order)
		if err != nil {
			return nil, fmt.Errorf("intermod: %w", err)
		}

		mixes[order] = products
	}

	return &Calculator{cfg: cfg, mixes: mixes}, nil
}

// AnalyzeSignal is a one-shot IMD analysis of a time-domain signal.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	c, err := NewCalculator(cfg)
	if err != nil {
		return Result{}, err
	}

	return c.AnalyzeSignal(signal)
}

// AnalyzeSignal applies a periodic Hann window, performs an FFT and
// measures every product bin.
func (c *Calculator) AnalyzeSignal(signal []float64) (Result, error) {
	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}

	fftSize := c.cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	n := min(len(signal), fftSize)

	windowed := make([]float64, n)
	copy(windowed, signal[:n])
	vecmath.MulBlockInPlace(windowed, hann(n))

	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("intermod: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Result{}, fmt.Errorf("intermod: forward FFT failed: %w", err)
	}

	magSquared := make([]float64, fftSize/2+1)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	calc := *c
	calc.cfg.FFTSize = fftSize

	return calc.CalculateFromMagnitude(magSquared), nil
}

// CalculateFromMagnitude measures IMD from a squared-magnitude spectrum
// covering bins [0..Nyquist]. Config.FFTSize must match the spectrum.
func (c *Calculator) CalculateFromMagnitude(magSquared []float64) Result {
	if len(magSquared) <= 1 {
		return Result{}
	}

	cfg := c.cfg

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = 2 * (len(magSquared) - 1)
	}

	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := len(magSquared) - 1

	lowerBin := clampInt(int(math.Ceil(cfg.RangeLowerFreq/binHz)), 1, maxBin)

	upperBin := maxBin
	if cfg.RangeUpperFreq > 0 {
		upperBin = clampInt(int(math.Floor(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)
	}

	toneBins := make(map[int]bool, len(cfg.Tones))
	toneLevels := make([]float64, len(cfg.Tones))
	reference := 0.0

	for i, f := range cfg.Tones {
		bin := int(math.Round(math.Abs(f) / binHz))
		toneBins[bin] = true
		toneLevels[i] = getBinValue(magSquared, bin, cfg.CaptureBins)
		reference += toneLevels[i]
	}

	reference /= float64(len(cfg.Tones))

	byBin := make(map[int]*ProductLevel)

	for order := imd.MinOrder; order <= cfg.MaxOrder; order += 2 {
		for _, p := range c.mixes[order] {
			f := math.Abs(p.Frequency)

			bin := int(math.Round(f / binHz))
			if bin < lowerBin || bin > upperBin || toneBins[bin] {
				continue
			}

			pl, ok := byBin[bin]
			if !ok {
				pl = &ProductLevel{Frequency: float64(bin) * binHz, Bin: bin, Order: order}
				byBin[bin] = pl
			}

			pl.Mixes = append(pl.Mixes, p)
		}
	}

	levels := make([]ProductLevel, 0, len(byBin))
	byOrder := make(map[int]float64)
	total := 0.0

	for _, pl := range byBin {
		pl.Level = getBinValue(magSquared, pl.Bin, cfg.CaptureBins)
		if reference > 0 {
			pl.Relative = pl.Level / reference
		}

		pl.Level_dB = ratioToDB(pl.Relative)

		byOrder[pl.Order] += pl.Relative * pl.Relative
		total += pl.Relative * pl.Relative

		levels = append(levels, *pl)
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].Bin < levels[j].Bin })

	for order, v := range byOrder {
		byOrder[order] = math.Sqrt(v)
	}

	imdRatio := math.Sqrt(total)

	return Result{
		ToneLevels:     toneLevels,
		ReferenceLevel: reference,
		Products:       levels,
		ByOrder:        byOrder,
		IMD:            imdRatio,
		IMD_dB:         ratioToDB(imdRatio),
	}
}

func normalizeConfig(cfg Config) Config {
	cfg.Tones = append([]float64(nil), cfg.Tones...)

	if cfg.MaxOrder < imd.MinOrder {
		cfg.MaxOrder = defaultMaxOrder
	}

	if cfg.MaxOrder%2 == 0 {
		cfg.MaxOrder--
	}

	if cfg.CaptureBins < 0 {
		cfg.CaptureBins = 0
	}

	if cfg.RangeLowerFreq < 0 {
		cfg.RangeLowerFreq = 0
	}

	if cfg.RangeUpperFreq > 0 && cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	return cfg
}

// hann returns periodic Hann coefficients, which keep a bin-centred tone
// inside its own bin and the two neighbours.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

func getBinValue(magSquared []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	loBin := max(bin-captureBins, 0)
	hiBin := min(bin+captureBins, len(magSquared)-1)

	sum := 0.0
	for i := loBin; i <= hiBin; i++ {
		sum += sqrtPositive(magSquared[i])
	}

	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
