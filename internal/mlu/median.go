package mlu

import "slices"

// Median returns the median of values without reordering them. An even
// count averages the two middle values. ok is false for an empty slice.
func Median(values []float64) (median float64, ok bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// isolations counts occurrences of length one.
func isolations(values []float64) int {
	n := 0
	for _, v := range values {
		if v == 1 {
			n++
		}
	}
	return n
}
