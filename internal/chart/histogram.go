package chart

import (
	"fmt"
	"slices"
)

// Bin is one histogram bucket covering [Low, High). The last bin also
// includes High.
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Label renders the bin range for an axis.
func (b Bin) Label() string {
	return fmt.Sprintf("%.2f-%.2f", b.Low, b.High)
}

// Histogram splits values into n equal-width bins spanning their range.
// When every value is equal the range is widened by 0.5 on each side.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if n <= 0 {
		n = DefaultBins
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	bins[n-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
