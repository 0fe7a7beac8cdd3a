package commands

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"palmares/contexts/contest-operations/progression-engine/adapters/memory"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
)

func newScoringUseCase(store *memory.Store) ScoringUseCase {
	return ScoringUseCase{
		Candidates:       store,
		Scores:           store,
		Outbox:           store,
		Clock:            store,
		IDGen:            store,
		AnomalyThreshold: 0.4,
	}
}

func juryScore(scoreID, candidateID string, value float64) entities.Score {
	total := value
	return entities.Score{
		ScoreID:     scoreID,
		CandidateID: candidateID,
		TotalScore:  &total,
		CriteriaScores: []entities.CriteriaScore{
			{Criteria: "technique", Value: value, Weight: 0.6},
			{Criteria: "originality", Value: value, Weight: 0.4},
		},
	}
}

func TestCalculateScoresNoCandidates(t *testing.T) {
	store := memory.NewStore()
	uc := newScoringUseCase(store)

	_, err := uc.CalculateScores(context.Background(), "c1")
	if !errors.Is(err, domainerrors.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestCalculateScoresWeightedAverageAndAnomaly(t *testing.T) {
	store := memory.NewStore()
	store.SetCandidate(entities.Candidate{CandidateID: "a", ContestID: "c1", Status: entities.CandidateQualified, RegisteredAt: time.Now().UTC()})
	store.AddScore(juryScore("s1", "a", 80))
	store.AddScore(juryScore("s2", "a", 82))
	store.AddScore(juryScore("s3", "a", 95))
	store.AddScore(juryScore("s4", "a", 20))
	uc := newScoringUseCase(store)

	result, err := uc.CalculateScores(context.Background(), "c1")
	if err != nil {
		t.Fatalf("calculate scores failed: %v", err)
	}
	if result.TotalCandidates != 1 || result.CalculatedScores != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}

	item := result.Results[0]
	if math.Abs(item.FinalScore-69.25) > 1e-9 {
		t.Fatalf("expected final score 69.25, got %f", item.FinalScore)
	}
	if math.Abs(item.MedianScore-81) > 1e-9 {
		t.Fatalf("expected median 81, got %f", item.MedianScore)
	}
	if len(item.Anomalies) != 1 || item.Anomalies[0].ScoreID != "s4" {
		t.Fatalf("expected only the outlier flagged, got %+v", item.Anomalies)
	}

	flagged, _ := store.GetScore("s4")
	if !flagged.IsAnomaly || !flagged.NeedsReview {
		t.Fatalf("expected s4 flagged for review, got %+v", flagged)
	}
	if flagged.AnomalyReason == "" {
		t.Fatalf("expected anomaly reason recorded")
	}
	clean, _ := store.GetScore("s3")
	if clean.IsAnomaly {
		t.Fatalf("expected s3 untouched, got %+v", clean)
	}

	calculations, _ := store.ListScoreCalculations(context.Background(), "c1")
	if len(calculations) != 1 {
		t.Fatalf("expected 1 calculation row, got %d", len(calculations))
	}
	calculation := calculations[0]
	if calculation.CalculationType != "weighted_average" {
		t.Fatalf("unexpected calculation type %q", calculation.CalculationType)
	}
	if calculation.Formula["technique"] != 0.6 || calculation.Formula["originality"] != 0.4 {
		t.Fatalf("unexpected formula %+v", calculation.Formula)
	}
}

func TestCalculateScoresSkipsUnscoredCandidates(t *testing.T) {
	store := memory.NewStore()
	store.SetCandidate(entities.Candidate{CandidateID: "scored", ContestID: "c1", Status: entities.CandidateQualified})
	store.SetCandidate(entities.Candidate{CandidateID: "unscored", ContestID: "c1", Status: entities.CandidateQualified})
	store.AddScore(juryScore("s1", "scored", 75))
	uc := newScoringUseCase(store)

	result, err := uc.CalculateScores(context.Background(), "c1")
	if err != nil {
		t.Fatalf("calculate scores failed: %v", err)
	}
	if result.TotalCandidates != 2 || result.CalculatedScores != 1 {
		t.Fatalf("expected one skipped candidate: %+v", result)
	}
	if result.Results[0].CandidateID != "scored" {
		t.Fatalf("unexpected scored candidate %q", result.Results[0].CandidateID)
	}
}

func TestCalculateScoresHistoryAccumulates(t *testing.T) {
	store := memory.NewStore()
	store.SetCandidate(entities.Candidate{CandidateID: "a", ContestID: "c1", Status: entities.CandidateQualified})
	store.AddScore(juryScore("s1", "a", 75))
	uc := newScoringUseCase(store)

	for i := 0; i < 2; i++ {
		if _, err := uc.CalculateScores(context.Background(), "c1"); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
	calculations, _ := store.ListScoreCalculations(context.Background(), "c1")
	if len(calculations) != 2 {
		t.Fatalf("expected append-only history of 2 rows, got %d", len(calculations))
	}
}
