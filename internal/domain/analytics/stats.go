package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ConsistencyScore is the coefficient of variation of positions, population
// standard deviation over mean. Lower is more consistent. Fewer than two
// positions or a non-positive mean give 0.
func ConsistencyScore(positions []float64) float64 {
	if len(positions) < 2 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(positions, nil)
	if mean <= 0 || math.IsNaN(std) {
		return 0
	}
	return std / mean
}

// TrendScore is the least squares slope of position against day offset.
// Negative means the rider is moving up. Fewer than two points, or points
// that all share one day, give 0.
func TrendScore(days, positions []float64) float64 {
	if len(days) < 2 || len(days) != len(positions) {
		return 0
	}
	if stat.Variance(days, nil) == 0 {
		return 0
	}
	_, slope := stat.LinearRegression(days, positions, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}

// ImprovementScore compares the first and second half of a position series.
// Positive means later positions are better. Needs at least four positions.
func ImprovementScore(positions []float64) float64 {
	if len(positions) < 4 {
		return 0
	}
	half := len(positions) / 2
	return stat.Mean(positions[:half], nil) - stat.Mean(positions[half:], nil)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func indexSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
