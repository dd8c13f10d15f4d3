// Package imd enumerates intermodulation distortion products.
//
// For N transmit frequencies and an odd order M, an intermodulation product
// is a signed integer coefficient vector c with sum(|c[i]|) == M together
// with the mixed frequency sum(c[i] * f[i]). Pure harmonics (vectors with a
// single non-zero entry) are suppressed, and each product is reported once:
// of the mirrored pair c and -c only the one with more positive than
// negative steps is produced.
//
// The search is a depth-first walk over coefficient increments. Positive
// increments are taken in non-decreasing index order so that each multiset
// of positive steps is reached once; from the midpoint ceil(M/2) onwards a
// walk may switch to negative increments, which never touch an index that
// is already positive and never switch back.
//
//	e, err := imd.New([]float64{100, 110})
//	if err != nil {
//		return err
//	}
//	products, err := e.Calculate(3)
//	// [2 1] -> 310, [2 -1] -> 90, [1 2] -> 320, [-1 2] -> 120
package imd
