package httpadapter

import (
	"context"
	"time"

	"palmares/contexts/contest-operations/progression-engine/application/commands"
	"palmares/contexts/contest-operations/progression-engine/application/queries"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	httptransport "palmares/contexts/contest-operations/progression-engine/transport/http"
)

type Handler struct {
	Workflow commands.WorkflowUseCase
	Rules    commands.RuleUseCase
	Jury     commands.JuryUseCase
	Scoring  commands.ScoringUseCase
	Results  queries.ResultsUseCase
}

func (h Handler) TransitionHandler(
	ctx context.Context,
	contestID string,
	req httptransport.TransitionRequest,
) (httptransport.TransitionResponse, error) {
	result, err := h.Workflow.Transition(ctx, commands.TransitionCommand{
		ContestID:   contestID,
		ToStep:      entities.StepType(req.ToStep),
		TriggeredBy: req.TriggeredBy,
	})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		Success:  result.Success,
		FromStep: string(result.FromStep),
		NewStep:  string(result.NewStep),
	}, nil
}

func (h Handler) ExecuteRulesHandler(
	ctx context.Context,
	contestID string,
	req httptransport.ExecuteRulesRequest,
) (httptransport.ExecuteRulesResponse, error) {
	result, err := h.Rules.ExecuteRules(ctx, commands.ExecuteRulesCommand{
		ContestID:  contestID,
		ExecutedBy: req.ExecutedBy,
	})
	if err != nil {
		return httptransport.ExecuteRulesResponse{}, err
	}
	response := httptransport.ExecuteRulesResponse{
		ContestID:     result.ContestID,
		TotalRules:    result.TotalRules,
		ExecutedRules: result.ExecutedRules,
		Results:       make([]httptransport.RuleResultDTO, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		response.Results = append(response.Results, httptransport.RuleResultDTO{
			RuleID:        item.RuleID,
			RuleName:      item.RuleName,
			RuleType:      string(item.Kind),
			Success:       item.Success,
			AffectedCount: item.AffectedCount,
			Error:         item.Error,
		})
	}
	return response, nil
}

func (h Handler) AssignJuryHandler(ctx context.Context, contestID string) (httptransport.AssignJuryResponse, error) {
	assignments, err := h.Jury.AssignJuryToContestants(ctx, contestID)
	if err != nil {
		return httptransport.AssignJuryResponse{}, err
	}
	response := httptransport.AssignJuryResponse{
		ContestID:       contestID,
		AssignmentCount: len(assignments),
		Assignments:     make([]httptransport.JuryAssignmentDTO, 0, len(assignments)),
	}
	for _, assignment := range assignments {
		response.Assignments = append(response.Assignments, mapAssignment(assignment))
	}
	return response, nil
}

func (h Handler) CalculateScoresHandler(ctx context.Context, contestID string) (httptransport.CalculateScoresResponse, error) {
	result, err := h.Scoring.CalculateScores(ctx, contestID)
	if err != nil {
		return httptransport.CalculateScoresResponse{}, err
	}
	response := httptransport.CalculateScoresResponse{
		ContestID:        result.ContestID,
		TotalCandidates:  result.TotalCandidates,
		CalculatedScores: result.CalculatedScores,
		Results:          make([]httptransport.CandidateScoreDTO, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		dto := httptransport.CandidateScoreDTO{
			CandidateID: item.CandidateID,
			FinalScore:  item.FinalScore,
			MedianScore: item.MedianScore,
			Anomalies:   make([]httptransport.AnomalyDTO, 0, len(item.Anomalies)),
			Weights:     item.Weights,
		}
		for _, anomaly := range item.Anomalies {
			dto.Anomalies = append(dto.Anomalies, httptransport.AnomalyDTO{
				ScoreID:   anomaly.ScoreID,
				Value:     anomaly.ActualScore,
				Deviation: anomaly.Deviation,
				Reason:    anomaly.Reason,
			})
		}
		response.Results = append(response.Results, dto)
	}
	return response, nil
}

func (h Handler) ContestResultsHandler(ctx context.Context, contestID string) (httptransport.ContestResultsResponse, error) {
	view, err := h.Results.ContestResults(ctx, contestID)
	if err != nil {
		return httptransport.ContestResultsResponse{}, err
	}
	response := httptransport.ContestResultsResponse{
		ContestID:    view.ContestID,
		TotalResults: view.TotalResults,
		Rankings:     make([]httptransport.RankingDTO, 0, len(view.Rankings)),
	}
	for _, ranking := range view.Rankings {
		response.Rankings = append(response.Rankings, httptransport.RankingDTO{
			Rank:            ranking.Rank,
			CandidateID:     ranking.CandidateID,
			FinalScore:      ranking.FinalScore,
			CalculationType: ranking.CalculationType,
			CalculatedAt:    ranking.CalculatedAt.UTC().Format(time.RFC3339),
		})
	}
	return response, nil
}

func (h Handler) RuleHistoryHandler(ctx context.Context, contestID string) (httptransport.RuleHistoryResponse, error) {
	items, err := h.Results.RuleExecutionHistory(ctx, contestID)
	if err != nil {
		return httptransport.RuleHistoryResponse{}, err
	}
	response := httptransport.RuleHistoryResponse{
		ContestID: contestID,
		Items:     make([]httptransport.RuleHistoryDTO, 0, len(items)),
	}
	for _, item := range items {
		dto := httptransport.RuleHistoryDTO{
			RuleID:     item.RuleID,
			RuleName:   item.RuleName,
			RuleType:   string(item.Kind),
			IsActive:   item.IsActive,
			Executions: make([]httptransport.RuleExecutionLogDTO, 0, len(item.Executions)),
		}
		for _, execution := range item.Executions {
			dto.Executions = append(dto.Executions, httptransport.RuleExecutionLogDTO{
				LogID:         execution.LogID,
				RuleID:        execution.RuleID,
				ExecutedBy:    execution.ExecutedBy,
				Success:       execution.Success,
				AffectedCount: execution.AffectedCount,
				ErrorMessage:  execution.ErrorMessage,
				ExecutedAt:    execution.ExecutedAt.UTC().Format(time.RFC3339),
			})
		}
		response.Items = append(response.Items, dto)
	}
	return response, nil
}

func (h Handler) JuryAssignmentsHandler(ctx context.Context, contestID string) (httptransport.JuryAssignmentsResponse, error) {
	assignments, err := h.Results.JuryAssignments(ctx, contestID)
	if err != nil {
		return httptransport.JuryAssignmentsResponse{}, err
	}
	response := httptransport.JuryAssignmentsResponse{
		ContestID: contestID,
		Items:     make([]httptransport.JuryAssignmentDTO, 0, len(assignments)),
	}
	for _, assignment := range assignments {
		response.Items = append(response.Items, mapAssignment(assignment))
	}
	return response, nil
}

func (h Handler) GetContestHandler(ctx context.Context, contestID string) (httptransport.ContestResponse, error) {
	contest, err := h.Results.Contest(ctx, contestID)
	if err != nil {
		return httptransport.ContestResponse{}, err
	}
	response := httptransport.ContestResponse{
		ContestID:      contest.ContestID,
		Title:          contest.Title,
		StartsAt:       contest.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:         contest.EndsAt.UTC().Format(time.RFC3339),
		MaxCandidates:  contest.MaxCandidates,
		CurrentStep:    string(contest.CurrentStep),
		IsActive:       contest.IsActive,
		CandidateCount: contest.CandidateCount,
		Steps:          make([]httptransport.WorkflowStepDTO, 0, len(contest.Steps)),
	}
	for _, step := range contest.Steps {
		response.Steps = append(response.Steps, httptransport.WorkflowStepDTO{
			StepID:        step.StepID,
			Type:          string(step.Type),
			Name:          step.Name,
			Order:         step.Order,
			MinCandidates: step.MinCandidates,
		})
	}
	return response, nil
}

func (h Handler) StepHistoryHandler(ctx context.Context, contestID string) (httptransport.StepHistoryResponse, error) {
	entries, err := h.Results.StepHistory(ctx, contestID)
	if err != nil {
		return httptransport.StepHistoryResponse{}, err
	}
	response := httptransport.StepHistoryResponse{
		ContestID: contestID,
		Items:     make([]httptransport.StepHistoryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Items = append(response.Items, httptransport.StepHistoryDTO{
			EntryID:     entry.EntryID,
			ContestID:   entry.ContestID,
			FromStep:    string(entry.FromStep),
			ToStep:      string(entry.ToStep),
			TriggeredBy: entry.TriggeredBy,
			Reason:      entry.Reason,
			OccurredAt:  entry.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return response, nil
}

func mapAssignment(assignment entities.JuryAssignment) httptransport.JuryAssignmentDTO {
	return httptransport.JuryAssignmentDTO{
		AssignmentID:  assignment.AssignmentID,
		JuryMemberID:  assignment.JuryMemberID,
		CandidateID:   assignment.CandidateID,
		ContestID:     assignment.ContestID,
		WorkloadScore: assignment.WorkloadScore,
		IsActive:      assignment.IsActive,
		AssignedAt:    assignment.AssignedAt.UTC().Format(time.RFC3339),
	}
}
