// Package rules implements the eligibility rule strategies and the
// kind-to-strategy registry the execution pipeline dispatches over. Adding a
// rule kind means registering a new strategy, not editing the pipeline.
package rules

import (
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

// Outcome is what a strategy produced for one rule evaluation. The pipeline
// applies the eliminations and records the audit entry.
type Outcome struct {
	Eliminations []ports.Elimination
}

// Strategy evaluates one rule kind against the REGISTERED candidates of a
// contest. Strategies are pure: they never write to storage themselves.
type Strategy interface {
	CanHandle(kind entities.RuleKind) bool
	Execute(rule entities.DynamicRule, candidates []entities.Candidate) (Outcome, error)
}

type Registry struct {
	strategies []Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// DefaultRegistry carries the three built-in rule kinds.
func DefaultRegistry() *Registry {
	return NewRegistry(
		AgeLimitStrategy{},
		SubmissionCountStrategy{},
		CandidateLimitStrategy{},
	)
}

func (r *Registry) Register(strategy Strategy) {
	r.strategies = append(r.strategies, strategy)
}

// Resolve returns the first strategy that handles the kind.
func (r *Registry) Resolve(kind entities.RuleKind) (Strategy, bool) {
	for _, strategy := range r.strategies {
		if strategy.CanHandle(kind) {
			return strategy, true
		}
	}
	return nil, false
}
