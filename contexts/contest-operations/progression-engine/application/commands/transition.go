package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "palmares/contexts/contest-operations/progression-engine/application"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// TransitionCommand asks the workflow state machine to move a contest to a
// target step.
type TransitionCommand struct {
	ContestID   string
	ToStep      entities.StepType
	TriggeredBy string
}

type TransitionResult struct {
	Success  bool
	FromStep entities.StepType
	NewStep  entities.StepType
}

// WorkflowUseCase validates and performs contest step transitions and records
// the append-only step history.
//
// EnforceStepOrder toggles strict linear ordering: when enabled, only the
// immediate successor of the current step is accepted. When disabled (the
// default) only step existence and the target's candidate gate are validated,
// and ordering remains caller policy.
type WorkflowUseCase struct {
	Contests         ports.ContestRepository
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	EnforceStepOrder bool
	Logger           *slog.Logger
}

func (uc WorkflowUseCase) Transition(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestID := strings.TrimSpace(cmd.ContestID)
	triggeredBy := strings.TrimSpace(cmd.TriggeredBy)
	logger.Info("workflow transition started",
		"event", "workflow_transition_started",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"to_step", string(cmd.ToStep),
		"triggered_by", triggeredBy,
	)

	contest, err := uc.Contests.GetContest(ctx, contestID)
	if err != nil {
		return TransitionResult{}, err
	}

	targetStep, found := contest.StepDefinition(cmd.ToStep)
	if !found {
		logger.Warn("workflow transition rejected",
			"event", "workflow_transition_rejected",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"to_step", string(cmd.ToStep),
			"cause", "target step not found",
		)
		return TransitionResult{}, fmt.Errorf("%w: target step not found", domainerrors.ErrInvalidTransition)
	}

	if uc.EnforceStepOrder {
		next, ok := entities.NextStep(contest.CurrentStep)
		if !ok || next != cmd.ToStep {
			logger.Warn("workflow transition rejected",
				"event", "workflow_transition_rejected",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"contest_id", contestID,
				"current_step", string(contest.CurrentStep),
				"to_step", string(cmd.ToStep),
				"cause", "step order violation",
			)
			return TransitionResult{}, fmt.Errorf("%w: %s does not follow %s",
				domainerrors.ErrInvalidTransition, cmd.ToStep, contest.CurrentStep)
		}
	}

	if targetStep.MinCandidates > 0 && contest.CandidateCount < targetStep.MinCandidates {
		logger.Warn("workflow transition rejected",
			"event", "workflow_transition_rejected",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"to_step", string(cmd.ToStep),
			"cause", "insufficient candidates",
			"candidate_count", contest.CandidateCount,
			"min_candidates", targetStep.MinCandidates,
		)
		return TransitionResult{}, fmt.Errorf("%w: insufficient candidates", domainerrors.ErrInvalidTransition)
	}

	if err := uc.Contests.UpdateCurrentStep(ctx, contestID, cmd.ToStep); err != nil {
		return TransitionResult{}, err
	}

	now := uc.now()
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return TransitionResult{}, err
	}
	entry := entities.StepHistory{
		EntryID:     entryID,
		ContestID:   contestID,
		FromStep:    contest.CurrentStep,
		ToStep:      cmd.ToStep,
		TriggeredBy: triggeredBy,
		Reason:      "Automatic transition",
		OccurredAt:  now,
	}
	if err := uc.Contests.AppendStepHistory(ctx, entry); err != nil {
		return TransitionResult{}, err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, EventStepTransitioned, contestID, now, map[string]any{
		"from_step":    string(contest.CurrentStep),
		"to_step":      string(cmd.ToStep),
		"triggered_by": triggeredBy,
	}); err != nil {
		logger.Warn("workflow transition event append failed",
			"event", "workflow_transition_event_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"error", err.Error(),
		)
	}

	logger.Info("workflow transition completed",
		"event", "workflow_transition_completed",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"from_step", string(contest.CurrentStep),
		"to_step", string(cmd.ToStep),
	)
	return TransitionResult{
		Success:  true,
		FromStep: contest.CurrentStep,
		NewStep:  cmd.ToStep,
	}, nil
}

func (uc WorkflowUseCase) now() time.Time {
	return resolveNow(uc.Clock)
}
