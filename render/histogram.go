package render

import (
	"fmt"
	"math"

	"goodreads-insights/models"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Count int
	// Percent is the bar length relative to the largest bar, 0-100.
	Percent float64
}

// YearBars turns grouped year counts into chart bars.
func YearBars(pairs []models.YearCount) []Bar {
	maxCount := 0
	for _, p := range pairs {
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}
	bars := make([]Bar, 0, len(pairs))
	for _, p := range pairs {
		bars = append(bars, Bar{Label: fmt.Sprint(p.Year), Count: p.Count, Percent: percent(p.Count, maxCount)})
	}
	return bars
}

// Histogram buckets values into at most bins equal-width bins spanning the
// observed range. A column with a single distinct value yields one bin.
func Histogram(values []float64, bins int) []Bar {
	if len(values) == 0 || bins < 1 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bar{{Label: formatEdge(lo), Count: len(values), Percent: 100}}
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	bars := make([]Bar, bins)
	for i, c := range counts {
		from := lo + float64(i)*width
		bars[i] = Bar{
			Label:   formatEdge(from) + " to " + formatEdge(from+width),
			Count:   c,
			Percent: percent(c, maxCount),
		}
	}
	return bars
}

// Ints widens an integer column for Histogram.
func Ints(col []int) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = float64(v)
	}
	return out
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) * 100 / float64(of)
}

func formatEdge(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
