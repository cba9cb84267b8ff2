package analytics

import "sort"

// Quantiles returns the 20/40/60/80th percentile breakpoints of sample,
// computed by sorting ascending and indexing at floor(n*q). A sample of size
// one yields four identical breakpoints; duplicates need no special casing.
// The caller must guard against an empty sample.
func Quantiles(sample []float64) [4]float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	n := len(sorted)
	var b [4]float64
	for i, q := range [4]float64{0.2, 0.4, 0.6, 0.8} {
		idx := int(float64(n) * q)
		if idx > n-1 {
			idx = n - 1
		}
		b[i] = sorted[idx]
	}
	return b
}

// scoreOf maps a raw value to a 1-5 band against ascending breakpoints:
// value <= b[0] scores 1, value > b[3] scores 5.
func scoreOf(value float64, b [4]float64) int {
	switch {
	case value <= b[0]:
		return 1
	case value <= b[1]:
		return 2
	case value <= b[2]:
		return 3
	case value <= b[3]:
		return 4
	default:
		return 5
	}
}
