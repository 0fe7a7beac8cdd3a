package commands

import (
	"context"
	"log/slog"
	"strings"

	application "palmares/contexts/contest-operations/progression-engine/application"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/domain/scoring"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// CandidateScoreResult is one candidate's outcome within a scoring run.
type CandidateScoreResult struct {
	CandidateID string
	FinalScore  float64
	MedianScore float64
	Anomalies   []scoring.Anomaly
	Weights     map[string]float64
}

type CalculateScoresResult struct {
	ContestID        string
	TotalCandidates  int
	CalculatedScores int
	Results          []CandidateScoreResult
}

// ScoringUseCase aggregates raw jury scores per candidate, flags anomalous
// scores, and appends an immutable calculation row per scored candidate.
// Candidates without scores are skipped, not failed.
type ScoringUseCase struct {
	Candidates       ports.CandidateRepository
	Scores           ports.ScoreRepository
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	AnomalyThreshold float64
	Logger           *slog.Logger
}

func (uc ScoringUseCase) CalculateScores(ctx context.Context, contestID string) (CalculateScoresResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestID = strings.TrimSpace(contestID)
	logger.Info("score calculation started",
		"event", "scoring_calculation_started",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
	)

	candidates, err := uc.Candidates.ListCandidatesWithScores(ctx, contestID)
	if err != nil {
		return CalculateScoresResult{}, err
	}
	if len(candidates) == 0 {
		return CalculateScoresResult{}, domainerrors.ErrNoCandidates
	}

	result := CalculateScoresResult{
		ContestID:       contestID,
		TotalCandidates: len(candidates),
	}
	now := resolveNow(uc.Clock)

	for _, candidate := range candidates {
		if len(candidate.Scores) == 0 {
			continue
		}

		inputs := make([]scoring.ScoreInput, 0, len(candidate.Scores))
		for _, score := range candidate.Scores {
			inputs = append(inputs, scoring.ScoreInput{
				ScoreID:        score.ScoreID,
				TotalScore:     score.TotalScore,
				CriteriaWeight: score.CriteriaWeight(),
			})
		}

		finalScore := scoring.WeightedAverage(inputs)
		median := scoring.Median(scoring.TotalValues(inputs))
		anomalies := scoring.DetectAnomalies(inputs, uc.AnomalyThreshold)

		for _, anomaly := range anomalies {
			update := ports.AnomalyUpdate{
				IsAnomaly:        true,
				AnomalyReason:    anomaly.Reason,
				AnomalyThreshold: anomaly.Deviation,
				NeedsReview:      true,
			}
			if err := uc.Scores.UpdateScoreAnomaly(ctx, anomaly.ScoreID, update); err != nil {
				logger.Error("anomaly flag update failed",
					"event", "scoring_anomaly_update_failed",
					"module", "contest-operations/progression-engine",
					"layer", "application",
					"contest_id", contestID,
					"score_id", anomaly.ScoreID,
					"error", err.Error(),
				)
			}
		}

		weights := extractWeights(candidate.Scores)
		calculationID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CalculateScoresResult{}, err
		}
		calculation := entities.ScoreCalculation{
			CalculationID:   calculationID,
			CandidateID:     candidate.CandidateID,
			ContestID:       contestID,
			CalculationType: "weighted_average",
			Formula:         weights,
			Result:          finalScore,
			CalculatedAt:    now,
		}
		if err := uc.Scores.AppendScoreCalculation(ctx, calculation); err != nil {
			return CalculateScoresResult{}, err
		}

		result.Results = append(result.Results, CandidateScoreResult{
			CandidateID: candidate.CandidateID,
			FinalScore:  finalScore,
			MedianScore: median,
			Anomalies:   anomalies,
			Weights:     weights,
		})
	}
	result.CalculatedScores = len(result.Results)

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, EventScoresCalculated, contestID, now, map[string]any{
		"total_candidates":  result.TotalCandidates,
		"calculated_scores": result.CalculatedScores,
	}); err != nil {
		logger.Warn("score calculation event append failed",
			"event", "scoring_event_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"error", err.Error(),
		)
	}

	logger.Info("score calculation completed",
		"event", "scoring_calculation_completed",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"total_candidates", result.TotalCandidates,
		"calculated_scores", result.CalculatedScores,
	)
	return result, nil
}

// extractWeights flattens the criteria weights seen across a candidate's
// scores into the formula map recorded with the calculation.
func extractWeights(scores []entities.Score) map[string]float64 {
	weights := make(map[string]float64)
	for _, score := range scores {
		for _, cs := range score.CriteriaScores {
			weights[cs.Criteria] = cs.Weight
		}
	}
	return weights
}
