package rules

import (
	"fmt"
	"sort"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// CandidateLimitStrategy keeps the earliest-registered MaxCandidates
// REGISTERED candidates and eliminates the remainder. Oldest-first retention
// is deliberate; scores may not exist yet at pre-selection.
type CandidateLimitStrategy struct{}

func (CandidateLimitStrategy) CanHandle(kind entities.RuleKind) bool {
	return kind == entities.RuleCandidateLimit
}

func (CandidateLimitStrategy) Execute(rule entities.DynamicRule, candidates []entities.Candidate) (Outcome, error) {
	maxCandidates := rule.Config.MaxCandidates
	if maxCandidates <= 0 {
		return Outcome{}, fmt.Errorf("%w: maxCandidates not defined", domainerrors.ErrRuleConfig)
	}

	registered := make([]entities.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Status == entities.CandidateRegistered {
			registered = append(registered, candidate)
		}
	}
	if len(registered) <= maxCandidates {
		return Outcome{}, nil
	}

	// Stable sort keeps input order for identical registration times.
	sort.SliceStable(registered, func(i, j int) bool {
		return registered[i].RegisteredAt.Before(registered[j].RegisteredAt)
	})

	var outcome Outcome
	reason := fmt.Sprintf("Exceeded candidate limit (%d)", maxCandidates)
	for _, candidate := range registered[maxCandidates:] {
		outcome.Eliminations = append(outcome.Eliminations, ports.Elimination{
			CandidateID: candidate.CandidateID,
			Reason:      reason,
		})
	}
	return outcome, nil
}
