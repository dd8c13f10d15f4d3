package testutil

import (
	"fmt"
	"sort"
	"strings"
)

// BruteForceMixes returns every coefficient vector of length n whose
// absolute values sum to order, that touches more than one index and whose
// plain coefficient sum is positive. For odd orders this is exactly one of
// each mirrored pair c, -c with the harmonics removed.
//
// The walk is exhaustive and only meant for small n and order.
func BruteForceMixes(n, order int) [][]int {
	var out [][]int
	vec := make([]int, n)

	var fill func(i, left int)
	fill = func(i, left int) {
		if i == n-1 {
			for _, v := range []int{left, -left} {
				vec[i] = v
				if keepMix(vec) {
					out = append(out, append([]int(nil), vec...))
				}
				if left == 0 {
					break
				}
			}
			vec[i] = 0
			return
		}
		for v := -left; v <= left; v++ {
			vec[i] = v
			fill(i+1, left-abs(v))
		}
		vec[i] = 0
	}

	if n > 0 {
		fill(0, order)
	}

	return out
}

func keepMix(vec []int) bool {
	nonZero, sum := 0, 0
	for _, v := range vec {
		if v != 0 {
			nonZero++
		}
		sum += v
	}
	return nonZero > 1 && sum > 0
}

// MixKeys renders each vector as a comparable string, sorted.
func MixKeys(vecs [][]int) []string {
	keys := make([]string, len(vecs))
	for i, v := range vecs {
		keys[i] = MixKey(v)
	}
	sort.Strings(keys)
	return keys
}

// MixKey renders one coefficient vector as "[a b c]".
func MixKey(vec []int) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
