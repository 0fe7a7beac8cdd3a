// Package scoring holds the pure numeric core of the progression engine:
// weighted aggregation, median, mean, population standard deviation, and the
// anomaly/outlier detectors built on top of them. Nothing here touches
// storage or logging.
package scoring

import (
	"math"
	"sort"
)

// ScoreInput is the calculator's view of one recorded score.
type ScoreInput struct {
	ScoreID        string
	TotalScore     *float64
	CriteriaWeight float64
}

// WeightedAverage computes sum(totalScore * criteriaWeight) / sum(criteriaWeight)
// over scores with a non-nil total. Returns 0 when the total weight is 0.
func WeightedAverage(scores []ScoreInput) float64 {
	var weighted, totalWeight float64
	for _, score := range scores {
		if score.TotalScore == nil {
			continue
		}
		weighted += *score.TotalScore * score.CriteriaWeight
		totalWeight += score.CriteriaWeight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weighted / totalWeight
}

// Median returns the standard median: the middle element, or the average of
// the two middle elements on even counts. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation. Fewer than two values yield 0.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var squared float64
	for _, value := range values {
		diff := value - mean
		squared += diff * diff
	}
	return math.Sqrt(squared / float64(len(values)))
}

// TotalValues extracts the non-nil total scores from the input set.
func TotalValues(scores []ScoreInput) []float64 {
	values := make([]float64, 0, len(scores))
	for _, score := range scores {
		if score.TotalScore != nil {
			values = append(values, *score.TotalScore)
		}
	}
	return values
}
