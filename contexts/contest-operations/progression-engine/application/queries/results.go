package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// Ranking is one row of the contest result board. Rank is the 1-based
// position in result-descending order; ties get consecutive ranks.
type Ranking struct {
	Rank            int
	CandidateID     string
	FinalScore      float64
	CalculationType string
	CalculatedAt    time.Time
}

// ContestResultsView is the ranked outcome of a contest's scoring runs.
type ContestResultsView struct {
	ContestID    string
	TotalResults int
	Rankings     []Ranking
}

// RuleHistoryItem pairs a rule with its most recent execution attempts.
type RuleHistoryItem struct {
	RuleID     string
	RuleName   string
	Kind       entities.RuleKind
	IsActive   bool
	Executions []entities.RuleExecutionLog
}

// ResultsUseCase serves the read side: rankings, rule execution history, jury
// assignments, and the contest view itself.
type ResultsUseCase struct {
	Contests ports.ContestRepository
	Rules    ports.RuleRepository
	Jury     ports.JuryRepository
	Scores   ports.ScoreRepository
}

const executionHistoryLimit = 10

func (uc ResultsUseCase) ContestResults(ctx context.Context, contestID string) (ContestResultsView, error) {
	calculations, err := uc.Scores.ListScoreCalculations(ctx, strings.TrimSpace(contestID))
	if err != nil {
		return ContestResultsView{}, err
	}
	// Repositories return result-descending order already; keep the contract
	// explicit against adapters that do not.
	sort.SliceStable(calculations, func(i, j int) bool {
		return calculations[i].Result > calculations[j].Result
	})

	view := ContestResultsView{
		ContestID:    strings.TrimSpace(contestID),
		TotalResults: len(calculations),
		Rankings:     make([]Ranking, 0, len(calculations)),
	}
	for i, calculation := range calculations {
		view.Rankings = append(view.Rankings, Ranking{
			Rank:            i + 1,
			CandidateID:     calculation.CandidateID,
			FinalScore:      calculation.Result,
			CalculationType: calculation.CalculationType,
			CalculatedAt:    calculation.CalculatedAt,
		})
	}
	return view, nil
}

func (uc ResultsUseCase) RuleExecutionHistory(ctx context.Context, contestID string) ([]RuleHistoryItem, error) {
	rules, err := uc.Rules.ListRules(ctx, strings.TrimSpace(contestID))
	if err != nil {
		return nil, err
	}
	items := make([]RuleHistoryItem, 0, len(rules))
	for _, rule := range rules {
		executions, err := uc.Rules.ListExecutionLogs(ctx, rule.RuleID, executionHistoryLimit)
		if err != nil {
			return nil, err
		}
		items = append(items, RuleHistoryItem{
			RuleID:     rule.RuleID,
			RuleName:   rule.Name,
			Kind:       rule.Kind,
			IsActive:   rule.IsActive,
			Executions: executions,
		})
	}
	return items, nil
}

func (uc ResultsUseCase) JuryAssignments(ctx context.Context, contestID string) ([]entities.JuryAssignment, error) {
	return uc.Jury.ListActiveAssignments(ctx, strings.TrimSpace(contestID))
}

func (uc ResultsUseCase) Contest(ctx context.Context, contestID string) (entities.Contest, error) {
	return uc.Contests.GetContest(ctx, strings.TrimSpace(contestID))
}

func (uc ResultsUseCase) StepHistory(ctx context.Context, contestID string) ([]entities.StepHistory, error) {
	return uc.Contests.ListStepHistory(ctx, strings.TrimSpace(contestID))
}
