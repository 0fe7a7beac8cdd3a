package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"palmares/contexts/contest-operations/progression-engine/adapters/memory"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
)

func seedContest(store *memory.Store, contestID string, current entities.StepType) {
	steps := make([]entities.WorkflowStep, 0, len(entities.StepSequence))
	for i, stepType := range entities.StepSequence {
		steps = append(steps, entities.WorkflowStep{
			StepID:    contestID + "-step-" + string(stepType),
			ContestID: contestID,
			Type:      stepType,
			Name:      string(stepType),
			Order:     i + 1,
		})
	}
	store.SetContest(entities.Contest{
		ContestID:   contestID,
		Title:       "Spring Showcase",
		StartsAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CurrentStep: current,
		IsActive:    true,
		Steps:       steps,
	})
}

func newWorkflowUseCase(store *memory.Store) WorkflowUseCase {
	return WorkflowUseCase{
		Contests: store,
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
	}
}

func TestTransitionUnknownContest(t *testing.T) {
	store := memory.NewStore()
	uc := newWorkflowUseCase(store)

	_, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID: "missing",
		ToStep:    entities.StepRegistration,
	})
	if !errors.Is(err, domainerrors.ErrContestNotFound) {
		t.Fatalf("expected ErrContestNotFound, got %v", err)
	}
}

func TestTransitionRejectsUndefinedStep(t *testing.T) {
	store := memory.NewStore()
	contest := entities.Contest{
		ContestID:   "c1",
		CurrentStep: entities.StepDraft,
		Steps: []entities.WorkflowStep{
			{StepID: "s1", ContestID: "c1", Type: entities.StepDraft, Order: 1},
		},
	}
	store.SetContest(contest)
	uc := newWorkflowUseCase(store)

	_, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID: "c1",
		ToStep:    entities.StepRegistration,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionCandidateGateBlocks(t *testing.T) {
	store := memory.NewStore()
	seedContest(store, "c1", entities.StepRegistration)
	contest, _ := store.GetContest(context.Background(), "c1")
	for i := range contest.Steps {
		if contest.Steps[i].Type == entities.StepPreSelection {
			contest.Steps[i].MinCandidates = 3
		}
	}
	store.SetContest(contest)
	store.SetCandidate(entities.Candidate{CandidateID: "a", ContestID: "c1", Status: entities.CandidateRegistered})
	uc := newWorkflowUseCase(store)

	_, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID: "c1",
		ToStep:    entities.StepPreSelection,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	reloaded, err := store.GetContest(context.Background(), "c1")
	if err != nil {
		t.Fatalf("reload contest: %v", err)
	}
	if reloaded.CurrentStep != entities.StepRegistration {
		t.Fatalf("expected current step unchanged, got %s", reloaded.CurrentStep)
	}
	history, _ := store.ListStepHistory(context.Background(), "c1")
	if len(history) != 0 {
		t.Fatalf("expected no history on rejected transition, got %d entries", len(history))
	}
}

func TestTransitionRecordsHistoryAndEvent(t *testing.T) {
	store := memory.NewStore()
	seedContest(store, "c1", entities.StepDraft)
	uc := newWorkflowUseCase(store)

	result, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID:   "c1",
		ToStep:      entities.StepRegistration,
		TriggeredBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !result.Success || result.FromStep != entities.StepDraft || result.NewStep != entities.StepRegistration {
		t.Fatalf("unexpected result: %+v", result)
	}

	reloaded, _ := store.GetContest(context.Background(), "c1")
	if reloaded.CurrentStep != entities.StepRegistration {
		t.Fatalf("expected current step REGISTRATION, got %s", reloaded.CurrentStep)
	}

	history, _ := store.ListStepHistory(context.Background(), "c1")
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.FromStep != entities.StepDraft || entry.ToStep != entities.StepRegistration {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	if entry.TriggeredBy != "admin-1" {
		t.Fatalf("expected triggered_by admin-1, got %q", entry.TriggeredBy)
	}
	if entry.Reason != "Automatic transition" {
		t.Fatalf("unexpected history reason %q", entry.Reason)
	}
	if store.PendingOutboxCount() != 1 {
		t.Fatalf("expected 1 pending outbox message, got %d", store.PendingOutboxCount())
	}
}

func TestTransitionHistoryAccumulates(t *testing.T) {
	store := memory.NewStore()
	seedContest(store, "c1", entities.StepDraft)
	uc := newWorkflowUseCase(store)

	steps := []entities.StepType{entities.StepRegistration, entities.StepPreSelection}
	for _, step := range steps {
		if _, err := uc.Transition(context.Background(), TransitionCommand{ContestID: "c1", ToStep: step}); err != nil {
			t.Fatalf("transition to %s failed: %v", step, err)
		}
	}

	history, _ := store.ListStepHistory(context.Background(), "c1")
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].ToStep != entities.StepRegistration || history[1].ToStep != entities.StepPreSelection {
		t.Fatalf("history out of order: %+v", history)
	}
}

func TestTransitionStrictOrderRejectsSkip(t *testing.T) {
	store := memory.NewStore()
	seedContest(store, "c1", entities.StepDraft)
	uc := newWorkflowUseCase(store)
	uc.EnforceStepOrder = true

	_, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID: "c1",
		ToStep:    entities.StepPreSelection,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for skipped step, got %v", err)
	}

	if _, err := uc.Transition(context.Background(), TransitionCommand{
		ContestID: "c1",
		ToStep:    entities.StepRegistration,
	}); err != nil {
		t.Fatalf("expected immediate successor to pass, got %v", err)
	}
}
