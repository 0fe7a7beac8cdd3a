package scoring

import (
	"fmt"
	"math"
)

const (
	// DefaultAnomalyThreshold is the relative deviation from the candidate
	// mean above which a score is flagged. Mean-based, not stddev-based.
	DefaultAnomalyThreshold = 0.4

	// DefaultZScoreThreshold drives the stricter companion outlier check.
	DefaultZScoreThreshold = 2.5
)

// Anomaly describes one flagged score within a candidate's score set.
type Anomaly struct {
	ScoreID     string
	Reason      string
	Deviation   float64
	ActualScore float64
	MeanScore   float64
}

// DetectAnomalies flags scores whose relative deviation from the candidate
// mean exceeds the threshold. Requires at least two non-nil scores; a zero
// mean yields no meaningful relative deviation and produces no anomalies.
func DetectAnomalies(scores []ScoreInput, threshold float64) []Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	values := TotalValues(scores)
	if len(values) < 2 {
		return nil
	}
	mean := Mean(values)
	if mean == 0 {
		return nil
	}

	var anomalies []Anomaly
	for _, score := range scores {
		if score.TotalScore == nil {
			continue
		}
		deviation := math.Abs(*score.TotalScore-mean) / mean
		if deviation > threshold {
			anomalies = append(anomalies, Anomaly{
				ScoreID:     score.ScoreID,
				Reason:      fmt.Sprintf("Score deviates %.1f%% from average", deviation*100),
				Deviation:   deviation,
				ActualScore: *score.TotalScore,
				MeanScore:   mean,
			})
		}
	}
	return anomalies
}

// DetectOutliers returns the values whose z-score exceeds the threshold.
// Requires at least three values and a non-zero standard deviation.
func DetectOutliers(values []float64, zThreshold float64) []float64 {
	if zThreshold <= 0 {
		zThreshold = DefaultZScoreThreshold
	}
	if len(values) < 3 {
		return nil
	}
	mean := Mean(values)
	stdDev := StdDev(values)
	if stdDev == 0 {
		return nil
	}

	var outliers []float64
	for _, value := range values {
		if math.Abs(value-mean)/stdDev > zThreshold {
			outliers = append(outliers, value)
		}
	}
	return outliers
}
