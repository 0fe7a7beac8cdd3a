package rules

import (
	"errors"
	"strings"
	"testing"
	"time"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
)

func registeredCandidate(id string, age int, submissions int, registeredAt time.Time) entities.Candidate {
	return entities.Candidate{
		CandidateID:     id,
		ContestID:       "contest-1",
		Status:          entities.CandidateRegistered,
		RegisteredAt:    registeredAt,
		Profile:         entities.CandidateProfile{Age: age},
		SubmissionCount: submissions,
	}
}

func TestAgeLimitEliminatesBelowMinimum(t *testing.T) {
	rule := entities.DynamicRule{
		RuleID: "rule-1",
		Kind:   entities.RuleAgeLimit,
		Config: entities.RuleConfig{MinAge: 18},
	}
	candidates := []entities.Candidate{
		registeredCandidate("cand-17", 17, 0, time.Now()),
		registeredCandidate("cand-18", 18, 0, time.Now()),
	}

	outcome, err := AgeLimitStrategy{}.Execute(rule, candidates)
	if err != nil {
		t.Fatalf("age rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 1 {
		t.Fatalf("expected one elimination, got %d", len(outcome.Eliminations))
	}
	if outcome.Eliminations[0].CandidateID != "cand-17" {
		t.Fatalf("expected cand-17 eliminated, got %s", outcome.Eliminations[0].CandidateID)
	}
	if !strings.Contains(outcome.Eliminations[0].Reason, "18") {
		t.Fatalf("expected reason to contain the threshold, got %q", outcome.Eliminations[0].Reason)
	}
}

func TestAgeLimitMaxBound(t *testing.T) {
	rule := entities.DynamicRule{
		Kind:   entities.RuleAgeLimit,
		Config: entities.RuleConfig{MaxAge: 25},
	}
	candidates := []entities.Candidate{
		registeredCandidate("cand-26", 26, 0, time.Now()),
		registeredCandidate("cand-25", 25, 0, time.Now()),
	}
	outcome, err := AgeLimitStrategy{}.Execute(rule, candidates)
	if err != nil {
		t.Fatalf("age rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 1 || outcome.Eliminations[0].CandidateID != "cand-26" {
		t.Fatalf("expected only cand-26 eliminated, got %v", outcome.Eliminations)
	}
}

func TestAgeLimitRequiresBounds(t *testing.T) {
	rule := entities.DynamicRule{Kind: entities.RuleAgeLimit}
	_, err := AgeLimitStrategy{}.Execute(rule, nil)
	if !errors.Is(err, domainerrors.ErrRuleConfig) {
		t.Fatalf("expected rule config error, got %v", err)
	}
}

func TestAgeLimitSkipsNonRegistered(t *testing.T) {
	rule := entities.DynamicRule{
		Kind:   entities.RuleAgeLimit,
		Config: entities.RuleConfig{MinAge: 18},
	}
	eliminated := registeredCandidate("cand-x", 12, 0, time.Now())
	eliminated.Status = entities.CandidateEliminated
	outcome, err := AgeLimitStrategy{}.Execute(rule, []entities.Candidate{eliminated})
	if err != nil {
		t.Fatalf("age rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 0 {
		t.Fatalf("expected terminal candidates untouched, got %v", outcome.Eliminations)
	}
}

func TestSubmissionCountStrictlyBelowThreshold(t *testing.T) {
	rule := entities.DynamicRule{
		Kind:   entities.RuleSubmissionCount,
		Config: entities.RuleConfig{MinSubmissions: 2},
	}
	candidates := []entities.Candidate{
		registeredCandidate("cand-1", 20, 1, time.Now()),
		registeredCandidate("cand-2", 20, 2, time.Now()),
	}
	outcome, err := SubmissionCountStrategy{}.Execute(rule, candidates)
	if err != nil {
		t.Fatalf("submission rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 1 || outcome.Eliminations[0].CandidateID != "cand-1" {
		t.Fatalf("expected only cand-1 eliminated, got %v", outcome.Eliminations)
	}
	if !strings.Contains(outcome.Eliminations[0].Reason, "1/2") {
		t.Fatalf("expected observed/threshold in reason, got %q", outcome.Eliminations[0].Reason)
	}
}

func TestSubmissionCountRequiresThreshold(t *testing.T) {
	rule := entities.DynamicRule{Kind: entities.RuleSubmissionCount}
	_, err := SubmissionCountStrategy{}.Execute(rule, nil)
	if !errors.Is(err, domainerrors.ErrRuleConfig) {
		t.Fatalf("expected rule config error, got %v", err)
	}
}

func TestCandidateLimitKeepsOldestTen(t *testing.T) {
	rule := entities.DynamicRule{
		Kind:   entities.RuleCandidateLimit,
		Config: entities.RuleConfig{MaxCandidates: 10},
	}
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	candidates := make([]entities.Candidate, 0, 12)
	for i := 0; i < 12; i++ {
		candidates = append(candidates, registeredCandidate(
			string(rune('a'+i)), 20, 0, base.Add(time.Duration(i)*time.Minute)))
	}

	outcome, err := CandidateLimitStrategy{}.Execute(rule, candidates)
	if err != nil {
		t.Fatalf("candidate limit rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 2 {
		t.Fatalf("expected two eliminations, got %d", len(outcome.Eliminations))
	}
	got := map[string]bool{}
	for _, elimination := range outcome.Eliminations {
		got[elimination.CandidateID] = true
	}
	if !got["k"] || !got["l"] {
		t.Fatalf("expected the two most recent registrations eliminated, got %v", got)
	}
}

func TestCandidateLimitUnderLimitNoop(t *testing.T) {
	rule := entities.DynamicRule{
		Kind:   entities.RuleCandidateLimit,
		Config: entities.RuleConfig{MaxCandidates: 5},
	}
	outcome, err := CandidateLimitStrategy{}.Execute(rule, []entities.Candidate{
		registeredCandidate("cand-1", 20, 0, time.Now()),
	})
	if err != nil {
		t.Fatalf("candidate limit rule failed: %v", err)
	}
	if len(outcome.Eliminations) != 0 {
		t.Fatalf("expected no eliminations under the limit, got %v", outcome.Eliminations)
	}
}

func TestRegistryResolvesByKind(t *testing.T) {
	registry := DefaultRegistry()
	if _, ok := registry.Resolve(entities.RuleAgeLimit); !ok {
		t.Fatalf("expected age limit strategy registered")
	}
	if _, ok := registry.Resolve(entities.RuleKind("GRADE_POINT")); ok {
		t.Fatalf("expected unknown kind unresolved")
	}
	registry.Register(stubStrategy{kind: "GRADE_POINT"})
	if _, ok := registry.Resolve(entities.RuleKind("GRADE_POINT")); !ok {
		t.Fatalf("expected registered kind resolved without touching built-ins")
	}
}

type stubStrategy struct{ kind entities.RuleKind }

func (s stubStrategy) CanHandle(kind entities.RuleKind) bool { return kind == s.kind }
func (s stubStrategy) Execute(entities.DynamicRule, []entities.Candidate) (Outcome, error) {
	return Outcome{}, nil
}
