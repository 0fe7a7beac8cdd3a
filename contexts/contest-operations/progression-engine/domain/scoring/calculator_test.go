package scoring

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestWeightedAverageNormalizesByObservedWeight(t *testing.T) {
	scores := []ScoreInput{
		{ScoreID: "s1", TotalScore: ptr(80), CriteriaWeight: 2},
		{ScoreID: "s2", TotalScore: ptr(60), CriteriaWeight: 1},
	}
	got := WeightedAverage(scores)
	want := (80*2 + 60*1) / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected weighted average %f, got %f", want, got)
	}
}

func TestWeightedAverageOrderInvariant(t *testing.T) {
	forward := []ScoreInput{
		{TotalScore: ptr(80), CriteriaWeight: 2},
		{TotalScore: ptr(60), CriteriaWeight: 1},
		{TotalScore: ptr(95), CriteriaWeight: 3},
	}
	reversed := []ScoreInput{forward[2], forward[1], forward[0]}
	if WeightedAverage(forward) != WeightedAverage(reversed) {
		t.Fatalf("weighted average changed with score order")
	}
}

func TestWeightedAverageSkipsNilTotals(t *testing.T) {
	scores := []ScoreInput{
		{TotalScore: nil, CriteriaWeight: 5},
		{TotalScore: ptr(50), CriteriaWeight: 1},
	}
	if got := WeightedAverage(scores); got != 50 {
		t.Fatalf("expected nil totals excluded from both sums, got %f", got)
	}
}

func TestWeightedAverageZeroWhenAllNilOrAbsent(t *testing.T) {
	if got := WeightedAverage(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %f", got)
	}
	scores := []ScoreInput{{TotalScore: nil, CriteriaWeight: 2}}
	if got := WeightedAverage(scores); got != 0 {
		t.Fatalf("expected 0 when every total is nil, got %f", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median: expected 2, got %f", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median: expected 2.5, got %f", got)
	}
	if got := Median(nil); got != 0 {
		t.Fatalf("empty median: expected 0, got %f", got)
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	Median(values)
	if values[0] != 9 || values[1] != 1 || values[2] != 5 {
		t.Fatalf("median mutated its input: %v", values)
	}
}

func TestStdDevPopulation(t *testing.T) {
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("expected population stddev 2, got %f", got)
	}
	if StdDev([]float64{5}) != 0 {
		t.Fatalf("expected 0 stddev for fewer than two values")
	}
}
