package scoring

import (
	"math"
	"strings"
	"testing"
)

func TestDetectAnomaliesFlagsLargeRelativeDeviation(t *testing.T) {
	scores := []ScoreInput{
		{ScoreID: "s1", TotalScore: ptr(80)},
		{ScoreID: "s2", TotalScore: ptr(82)},
		{ScoreID: "s3", TotalScore: ptr(95)},
		{ScoreID: "s4", TotalScore: ptr(20)},
	}
	anomalies := DetectAnomalies(scores, DefaultAnomalyThreshold)
	if len(anomalies) != 1 {
		t.Fatalf("expected exactly one anomaly, got %d", len(anomalies))
	}
	anomaly := anomalies[0]
	if anomaly.ScoreID != "s4" {
		t.Fatalf("expected score 20 flagged, got %s", anomaly.ScoreID)
	}
	// mean = 69.25, |20-69.25|/69.25 ≈ 0.711; 95 deviates ≈ 0.372 and stays.
	if math.Abs(anomaly.MeanScore-69.25) > 1e-9 {
		t.Fatalf("expected mean 69.25, got %f", anomaly.MeanScore)
	}
	if anomaly.Deviation <= DefaultAnomalyThreshold {
		t.Fatalf("expected deviation above threshold, got %f", anomaly.Deviation)
	}
	if !strings.Contains(anomaly.Reason, "%") {
		t.Fatalf("expected percentage in reason, got %q", anomaly.Reason)
	}
}

func TestDetectAnomaliesRequiresTwoScores(t *testing.T) {
	scores := []ScoreInput{{ScoreID: "s1", TotalScore: ptr(10)}}
	if got := DetectAnomalies(scores, 0.4); got != nil {
		t.Fatalf("expected no anomalies for a single score, got %v", got)
	}
}

func TestDetectAnomaliesIgnoresNilTotals(t *testing.T) {
	scores := []ScoreInput{
		{ScoreID: "s1", TotalScore: ptr(100)},
		{ScoreID: "s2", TotalScore: nil},
		{ScoreID: "s3", TotalScore: ptr(100)},
	}
	if got := DetectAnomalies(scores, 0.4); got != nil {
		t.Fatalf("expected no anomalies for identical totals, got %v", got)
	}
}

func TestDetectAnomaliesZeroMean(t *testing.T) {
	scores := []ScoreInput{
		{ScoreID: "s1", TotalScore: ptr(5)},
		{ScoreID: "s2", TotalScore: ptr(-5)},
	}
	if got := DetectAnomalies(scores, 0.4); got != nil {
		t.Fatalf("expected no anomalies on zero mean, got %v", got)
	}
}

func TestDetectOutliersZScore(t *testing.T) {
	values := []float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 500}
	outliers := DetectOutliers(values, DefaultZScoreThreshold)
	if len(outliers) != 1 || outliers[0] != 500 {
		t.Fatalf("expected the extreme value flagged, got %v", outliers)
	}
}

func TestDetectOutliersGuards(t *testing.T) {
	if got := DetectOutliers([]float64{1, 2}, 2.5); got != nil {
		t.Fatalf("expected nil for fewer than three values, got %v", got)
	}
	if got := DetectOutliers([]float64{7, 7, 7}, 2.5); got != nil {
		t.Fatalf("expected nil for zero stddev, got %v", got)
	}
}
