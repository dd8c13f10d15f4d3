package imd

type sign int

const (
	positive sign = iota
	negative
)

// traversal is the per-call state of one depth-first enumeration. Each
// parallel subtree gets its own traversal so nothing is shared while
// products are being appended.
type traversal struct {
	freqs    []float64
	order    int
	midpoint int

	countOnly bool
	count     int
	products  Products
}

func newTraversal(freqs []float64, order int) *traversal {
	return &traversal{
		freqs:    freqs,
		order:    order,
		midpoint: (order + 1) / 2,
	}
}

// walk visits every index from start onwards in the given sign mode.
func (t *traversal) walk(mode sign, coeffs Coefficients, depth int, sum float64, start int) {
	if mode == negative && coeffs[start] >= 0 {
		start = 0
	}

	for index := start; index < len(coeffs); index++ {
		t.step(mode, coeffs, depth, sum, index)
	}
}

// step applies a single increment (positive) or decrement (negative) at
// index and either recurses or emits the finished product.
func (t *traversal) step(mode sign, coeffs Coefficients, depth int, sum float64, index int) {
	switch mode {
	case positive:
		// Every step so far landed on index: a pure harmonic.
		if coeffs[index] == t.order-1 {
			return
		}
	case negative:
		if coeffs[index] > 0 {
			return
		}
	}

	updated := make(Coefficients, len(coeffs))
	copy(updated, coeffs)

	if mode == positive {
		updated[index]++
		sum += t.freqs[index]
	} else {
		updated[index]--
		sum -= t.freqs[index]
	}

	if depth == t.order {
		t.emit(updated, sum)
		return
	}

	t.walk(mode, updated, depth+1, sum, index)

	// Negative runs only start once the positive steps outnumber what is left.
	if mode == positive && depth >= t.midpoint {
		t.walk(negative, updated, depth+1, sum, index)
	}
}

func (t *traversal) emit(coeffs Coefficients, sum float64) {
	t.count++
	if t.countOnly {
		return
	}

	t.products = append(t.products, Product{
		Coefficients: coeffs,
		Frequency:    roundFrequency(sum),
	})
}
