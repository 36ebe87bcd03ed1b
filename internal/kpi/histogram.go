package kpi

import (
	"fmt"
	"math"
)

// HistogramBin is one labeled bucket of a fixed-range histogram.
type HistogramBin struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Histogram buckets values into bins equal-width bins over [min, max].
// A value exactly at max is clamped into the last bin; values outside
// the range are dropped. Empty bins are kept so the output always
// covers the full range, labeled with integer-rounded boundaries.
func Histogram(values []float64, min, max float64, bins int) []HistogramBin {
	if bins <= 0 || max <= min {
		return nil
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, value := range values {
		if value < min || value > max {
			continue
		}
		bin := int(math.Floor((value - min) / width))
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}

	out := make([]HistogramBin, bins)
	for i, count := range counts {
		lo := min + float64(i)*width
		hi := min + float64(i+1)*width
		out[i] = HistogramBin{
			Range: fmt.Sprintf("%.0f-%.0f", lo, hi),
			Count: count,
		}
	}
	return out
}
