package imd

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// frequencyDigits is the number of decimal digits kept in Product.Frequency.
const frequencyDigits = 10

// Coefficients holds one signed mixing coefficient per transmit frequency.
type Coefficients []int

// Order returns the L1 norm of the coefficient vector.
func (c Coefficients) Order() int {
	n := 0
	for _, v := range c {
		if v < 0 {
			n -= v
		} else {
			n += v
		}
	}

	return n
}

// Dot returns sum(c[i] * freqs[i]). It panics if the lengths differ.
func (c Coefficients) Dot(freqs []float64) float64 {
	if len(c) != len(freqs) {
		panic("imd: coefficient and frequency lengths differ")
	}

	sum := 0.0
	for i, v := range c {
		sum += float64(v) * freqs[i]
	}

	return sum
}

// Product is one intermodulation term: the mixing coefficients and the
// resulting frequency.
type Product struct {
	Coefficients Coefficients
	Frequency    float64
}

// Order returns the mixing order of the product.
func (p Product) Order() int {
	return p.Coefficients.Order()
}

func (p Product) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, v := range p.Coefficients {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(strconv.Itoa(v))
	}

	b.WriteString("] -> ")
	b.WriteString(strconv.FormatFloat(p.Frequency, 'f', -1, 64))

	return b.String()
}

// Products is the result of one enumeration.
type Products []Product

// Sort orders products by frequency, then lexicographically by coefficients.
func (ps Products) Sort() {
	slices.SortStableFunc(ps, compareProducts)
}

// InBand returns the products whose frequency lies in [lo, hi].
func (ps Products) InBand(lo, hi float64) Products {
	if hi < lo {
		lo, hi = hi, lo
	}

	out := make(Products, 0)

	for _, p := range ps {
		if p.Frequency >= lo && p.Frequency <= hi {
			out = append(out, p)
		}
	}

	return out
}

// Frequencies returns the product frequencies in enumeration order.
func (ps Products) Frequencies() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Frequency
	}

	return out
}

func compareProducts(a, b Product) int {
	if c := cmp.Compare(a.Frequency, b.Frequency); c != 0 {
		return c
	}

	return slices.Compare(a.Coefficients, b.Coefficients)
}

// roundFrequency rounds v to frequencyDigits decimal places using correctly
// rounded decimal conversion, so 0.1+0.2 and 0.3 map to the same value.
func roundFrequency(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', frequencyDigits, 64), 64)
	if err != nil {
		return v
	}

	return r
}
