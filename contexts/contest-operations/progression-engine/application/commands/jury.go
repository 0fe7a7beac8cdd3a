package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	application "palmares/contexts/contest-operations/progression-engine/application"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// JuryUseCase matches QUALIFIED candidates to active jury members with a
// greedy least-loaded policy under conflict-of-interest and capacity
// constraints. The batch is all-or-nothing: one unassignable candidate aborts
// the run before anything is persisted.
type JuryUseCase struct {
	Jury       ports.JuryRepository
	Candidates ports.CandidateRepository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc JuryUseCase) AssignJuryToContestants(ctx context.Context, contestID string) ([]entities.JuryAssignment, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestID = strings.TrimSpace(contestID)
	logger.Info("jury assignment started",
		"event", "jury_assignment_started",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
	)

	var (
		juryMembers []entities.JuryMember
		candidates  []entities.Candidate
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		loaded, err := uc.Jury.ListActiveJuryMembers(groupCtx, contestID)
		if err != nil {
			return err
		}
		juryMembers = loaded
		return nil
	})
	group.Go(func() error {
		loaded, err := uc.Candidates.ListCandidatesByStatus(groupCtx, contestID, entities.CandidateQualified)
		if err != nil {
			return err
		}
		candidates = loaded
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(juryMembers) == 0 || len(candidates) == 0 {
		logger.Warn("jury assignment rejected",
			"event", "jury_assignment_rejected",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"jury_count", len(juryMembers),
			"candidate_count", len(candidates),
		)
		return nil, domainerrors.ErrNoJuryOrCandidates
	}

	// Running loads live in a local accumulator and are flushed to storage
	// only after the whole batch succeeds.
	loads := make(map[string]int, len(juryMembers))
	for _, jury := range juryMembers {
		loads[jury.JuryMemberID] = jury.CurrentLoad
	}

	now := resolveNow(uc.Clock)
	assignments := make([]entities.JuryAssignment, 0, len(candidates))
	for _, candidate := range candidates {
		selected := -1
		for i, jury := range juryMembers {
			if jury.HasConflictWith(candidate.Profile.Institution) {
				continue
			}
			if jury.HasActiveAssignment(candidate.CandidateID) {
				continue
			}
			if loads[jury.JuryMemberID] >= jury.Capacity() {
				continue
			}
			// Least loaded wins; first encountered wins ties.
			if selected == -1 || loads[jury.JuryMemberID] < loads[juryMembers[selected].JuryMemberID] {
				selected = i
			}
		}
		if selected == -1 {
			logger.Warn("jury assignment aborted",
				"event", "jury_assignment_aborted",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"contest_id", contestID,
				"candidate_id", candidate.CandidateID,
			)
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrNoAvailableJury, candidate.CandidateID)
		}

		jury := juryMembers[selected]
		loads[jury.JuryMemberID]++
		assignmentID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, entities.JuryAssignment{
			AssignmentID: assignmentID,
			JuryMemberID: jury.JuryMemberID,
			CandidateID:  candidate.CandidateID,
			ContestID:    contestID,
			// Workload score is the jury member's queue position after this
			// assignment, not a fairness metric.
			WorkloadScore: loads[jury.JuryMemberID],
			IsActive:      true,
			AssignedAt:    now,
		})
	}

	if err := uc.Jury.CreateAssignments(ctx, assignments); err != nil {
		return nil, err
	}
	for _, jury := range juryMembers {
		if loads[jury.JuryMemberID] == jury.CurrentLoad {
			continue
		}
		if err := uc.Jury.UpdateJuryLoad(ctx, jury.JuryMemberID, loads[jury.JuryMemberID]); err != nil {
			return nil, err
		}
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, EventJuryAssigned, contestID, now, map[string]any{
		"assignment_count": len(assignments),
	}); err != nil {
		logger.Warn("jury assignment event append failed",
			"event", "jury_assignment_event_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"error", err.Error(),
		)
	}

	logger.Info("jury assignment completed",
		"event", "jury_assignment_completed",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"assignment_count", len(assignments),
	)
	return assignments, nil
}
