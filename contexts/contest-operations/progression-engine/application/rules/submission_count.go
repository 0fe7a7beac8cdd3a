package rules

import (
	"fmt"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// SubmissionCountStrategy eliminates REGISTERED candidates with strictly
// fewer submissions than the configured minimum.
type SubmissionCountStrategy struct{}

func (SubmissionCountStrategy) CanHandle(kind entities.RuleKind) bool {
	return kind == entities.RuleSubmissionCount
}

func (SubmissionCountStrategy) Execute(rule entities.DynamicRule, candidates []entities.Candidate) (Outcome, error) {
	minSubmissions := rule.Config.MinSubmissions
	if minSubmissions <= 0 {
		return Outcome{}, fmt.Errorf("%w: minSubmissions not defined", domainerrors.ErrRuleConfig)
	}

	var outcome Outcome
	for _, candidate := range candidates {
		if candidate.Status != entities.CandidateRegistered {
			continue
		}
		if candidate.SubmissionCount < minSubmissions {
			outcome.Eliminations = append(outcome.Eliminations, ports.Elimination{
				CandidateID: candidate.CandidateID,
				Reason: fmt.Sprintf("Insufficient submissions (%d/%d)",
					candidate.SubmissionCount, minSubmissions),
			})
		}
	}
	return outcome, nil
}
