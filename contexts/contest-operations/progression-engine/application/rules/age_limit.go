package rules

import (
	"fmt"
	"strings"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// AgeLimitStrategy eliminates REGISTERED candidates outside the configured
// age bounds. At least one of MinAge/MaxAge must be set.
type AgeLimitStrategy struct{}

func (AgeLimitStrategy) CanHandle(kind entities.RuleKind) bool {
	return kind == entities.RuleAgeLimit
}

func (AgeLimitStrategy) Execute(rule entities.DynamicRule, candidates []entities.Candidate) (Outcome, error) {
	minAge := rule.Config.MinAge
	maxAge := rule.Config.MaxAge
	if minAge == 0 && maxAge == 0 {
		return Outcome{}, fmt.Errorf("%w: no age limits defined", domainerrors.ErrRuleConfig)
	}

	var bounds []string
	if minAge > 0 {
		bounds = append(bounds, fmt.Sprintf("min: %d", minAge))
	}
	if maxAge > 0 {
		bounds = append(bounds, fmt.Sprintf("max: %d", maxAge))
	}
	reason := fmt.Sprintf("Age requirement not met (%s)", strings.Join(bounds, " "))

	var outcome Outcome
	for _, candidate := range candidates {
		if candidate.Status != entities.CandidateRegistered {
			continue
		}
		if (minAge > 0 && candidate.Profile.Age < minAge) ||
			(maxAge > 0 && candidate.Profile.Age > maxAge) {
			outcome.Eliminations = append(outcome.Eliminations, ports.Elimination{
				CandidateID: candidate.CandidateID,
				Reason:      reason,
			})
		}
	}
	return outcome, nil
}
