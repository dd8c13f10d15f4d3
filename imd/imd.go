package imd

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MinOrder is the lowest order that produces intermodulation products.
const MinOrder = 3

// Enumerator enumerates intermodulation products of a fixed set of transmit
// frequencies. It is not safe for concurrent use: each Calculate call
// replaces the stored product set.
type Enumerator struct {
	freqs    []float64
	cfg      config
	products Products
}

// New creates an Enumerator for the given transmit frequencies. Every
// frequency must be finite and at least one is required.
func New(freqs []float64, opts ...Option) (*Enumerator, error) {
	if len(freqs) == 0 {
		return nil, &InvalidInputError{Index: -1}
	}

	for i, f := range freqs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &InvalidInputError{Index: i, Value: strconv.FormatFloat(f, 'g', -1, 64)}
		}
	}

	return &Enumerator{
		freqs: append([]float64(nil), freqs...),
		cfg:   applyOptions(opts),
	}, nil
}

// ParseFrequencies converts textual frequencies to float64 values.
func ParseFrequencies(args []string) ([]float64, error) {
	if len(args) == 0 {
		return nil, &InvalidInputError{Index: -1}
	}

	out := make([]float64, len(args))

	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &InvalidInputError{Index: i, Value: a}
		}

		out[i] = f
	}

	return out, nil
}

// Validate reports whether order is usable: odd and at least MinOrder.
func Validate(order int) error {
	if order%2 == 0 {
		return &InvalidOrderError{Order: order, Reason: ReasonEven}
	}

	if order < MinOrder {
		return &InvalidOrderError{Order: order, Reason: ReasonTooLow}
	}

	return nil
}

// Frequencies returns a copy of the transmit frequencies.
func (e *Enumerator) Frequencies() []float64 {
	return append([]float64(nil), e.freqs...)
}

// Products returns the product set of the last successful Calculate call.
func (e *Enumerator) Products() Products {
	return e.products
}

// Calculate enumerates every intermodulation product of the given order.
// Pure harmonics are excluded, and only the non-negative frequency half of
// each mirrored pair is produced.
func (e *Enumerator) Calculate(order int) (Products, error) {
	return e.CalculateContext(context.Background(), order)
}

// CalculateContext is Calculate with cancellation. The context is checked
// between depth-1 subtrees; on cancellation no products are returned.
func (e *Enumerator) CalculateContext(ctx context.Context, order int) (Products, error) {
	if err := Validate(order); err != nil {
		return nil, err
	}

	parts, err := e.enumerate(ctx, order, false)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, p := range parts {
		n += len(p.products)
	}

	products := make(Products, 0, n)
	for _, p := range parts {
		products = append(products, p.products...)
	}

	e.products = products

	return products, nil
}

// Count returns how many products Calculate would return for order without
// keeping them. It does not touch the stored product set.
func (e *Enumerator) Count(ctx context.Context, order int) (int, error) {
	if err := Validate(order); err != nil {
		return 0, err
	}

	parts, err := e.enumerate(ctx, order, true)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, p := range parts {
		n += p.count
	}

	return n, nil
}

// enumerate runs one traversal per depth-1 index and returns them in index
// order. Concatenating their products gives the sequential enumeration order.
func (e *Enumerator) enumerate(ctx context.Context, order int, countOnly bool) ([]*traversal, error) {
	parts := make([]*traversal, len(e.freqs))
	for i := range parts {
		parts[i] = newTraversal(e.freqs, order)
		parts[i].countOnly = countOnly
	}

	root := make(Coefficients, len(e.freqs))

	if e.cfg.workers <= 1 || len(parts) == 1 {
		for i, t := range parts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			t.step(positive, root, 1, 0, i)
		}

		return parts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers)

	for i, t := range parts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			t.step(positive, root, 1, 0, i)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return parts, nil
}
