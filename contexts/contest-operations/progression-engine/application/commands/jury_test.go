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

func newJuryUseCase(store *memory.Store) JuryUseCase {
	return JuryUseCase{
		Jury:       store,
		Candidates: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}
}

func qualifiedCandidate(id, contestID, institution string, registeredAt time.Time) entities.Candidate {
	return entities.Candidate{
		CandidateID:  id,
		ContestID:    contestID,
		Status:       entities.CandidateQualified,
		RegisteredAt: registeredAt,
		Profile:      entities.CandidateProfile{Institution: institution},
	}
}

func TestAssignJuryRequiresJuryAndCandidates(t *testing.T) {
	store := memory.NewStore()
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "j1", ContestID: "c1", IsActive: true})
	uc := newJuryUseCase(store)

	_, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if !errors.Is(err, domainerrors.ErrNoJuryOrCandidates) {
		t.Fatalf("expected ErrNoJuryOrCandidates, got %v", err)
	}
}

func TestAssignJuryPrefersLeastLoaded(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "busy", ContestID: "c1", IsActive: true, CurrentLoad: 5})
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "idle", ContestID: "c1", IsActive: true})
	store.SetCandidate(qualifiedCandidate("a", "c1", "", base))
	store.SetCandidate(qualifiedCandidate("b", "c1", "", base.Add(time.Minute)))
	uc := newJuryUseCase(store)

	assignments, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	for _, assignment := range assignments {
		if assignment.JuryMemberID != "idle" {
			t.Fatalf("expected least-loaded member to take both, got %+v", assignment)
		}
	}

	idle, _ := store.GetJuryMember("idle")
	if idle.CurrentLoad != 2 {
		t.Fatalf("expected idle load 2, got %d", idle.CurrentLoad)
	}
	busy, _ := store.GetJuryMember("busy")
	if busy.CurrentLoad != 5 {
		t.Fatalf("expected busy load unchanged, got %d", busy.CurrentLoad)
	}
}

func TestAssignJuryWorkloadScoreIsQueuePosition(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "j1", ContestID: "c1", IsActive: true, CurrentLoad: 3})
	store.SetCandidate(qualifiedCandidate("a", "c1", "", base))
	store.SetCandidate(qualifiedCandidate("b", "c1", "", base.Add(time.Minute)))
	uc := newJuryUseCase(store)

	assignments, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if assignments[0].WorkloadScore != 4 || assignments[1].WorkloadScore != 5 {
		t.Fatalf("unexpected workload scores: %+v", assignments)
	}
}

func TestAssignJurySkipsConflictedMember(t *testing.T) {
	store := memory.NewStore()
	store.SetJuryMember(entities.JuryMember{
		JuryMemberID:         "conflicted",
		ContestID:            "c1",
		IsActive:             true,
		ConflictInstitutions: []string{"ENS Lyon"},
	})
	store.SetJuryMember(entities.JuryMember{
		JuryMemberID: "neutral",
		ContestID:    "c1",
		IsActive:     true,
		CurrentLoad:  9,
	})
	store.SetCandidate(qualifiedCandidate("a", "c1", "ENS Lyon", time.Now().UTC()))
	uc := newJuryUseCase(store)

	assignments, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if len(assignments) != 1 || assignments[0].JuryMemberID != "neutral" {
		t.Fatalf("expected neutral member despite heavier load, got %+v", assignments)
	}
}

func TestAssignJuryCapacityExhaustionAbortsBatch(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	store.SetJuryMember(entities.JuryMember{
		JuryMemberID:  "j1",
		ContestID:     "c1",
		IsActive:      true,
		MaxCandidates: 1,
	})
	store.SetCandidate(qualifiedCandidate("a", "c1", "", base))
	store.SetCandidate(qualifiedCandidate("b", "c1", "", base.Add(time.Minute)))
	uc := newJuryUseCase(store)

	_, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if !errors.Is(err, domainerrors.ErrNoAvailableJury) {
		t.Fatalf("expected ErrNoAvailableJury, got %v", err)
	}

	// All-or-nothing: nothing may be persisted on abort.
	persisted, _ := store.ListActiveAssignments(context.Background(), "c1")
	if len(persisted) != 0 {
		t.Fatalf("expected no persisted assignments, got %d", len(persisted))
	}
	jury, _ := store.GetJuryMember("j1")
	if jury.CurrentLoad != 0 {
		t.Fatalf("expected load unchanged on abort, got %d", jury.CurrentLoad)
	}
}

func TestAssignJurySkipsExistingActiveAssignment(t *testing.T) {
	store := memory.NewStore()
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "j1", ContestID: "c1", IsActive: true})
	if err := store.CreateAssignments(context.Background(), []entities.JuryAssignment{
		{AssignmentID: "old", JuryMemberID: "j1", CandidateID: "a", ContestID: "c1", IsActive: true},
	}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	store.SetJuryMember(entities.JuryMember{JuryMemberID: "j2", ContestID: "c1", IsActive: true, CurrentLoad: 4})
	store.SetCandidate(qualifiedCandidate("a", "c1", "", time.Now().UTC()))
	uc := newJuryUseCase(store)

	assignments, err := uc.AssignJuryToContestants(context.Background(), "c1")
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if len(assignments) != 1 || assignments[0].JuryMemberID != "j2" {
		t.Fatalf("expected candidate routed to second member, got %+v", assignments)
	}
}
