package entities

import "time"

type RuleKind string

const (
	RuleAgeLimit        RuleKind = "AGE_LIMIT"
	RuleSubmissionCount RuleKind = "SUBMISSION_COUNT"
	RuleCandidateLimit  RuleKind = "CANDIDATE_LIMIT"
)

// RuleConfig is the kind-specific payload of a dynamic rule. Zero values mean
// the field is unset; each strategy validates the fields it needs.
type RuleConfig struct {
	MinAge         int
	MaxAge         int
	MinSubmissions int
	MaxCandidates  int
}

type DynamicRule struct {
	RuleID     string
	ContestID  string
	Name       string
	Kind       RuleKind
	Order      int
	IsBlocking bool
	IsActive   bool
	Config     RuleConfig
	CreatedAt  time.Time
}

// RuleExecutionLog is an append-only audit record, one per evaluation attempt
// regardless of outcome.
type RuleExecutionLog struct {
	LogID         string
	RuleID        string
	ExecutedBy    string
	Success       bool
	AffectedCount int
	ErrorMessage  string
	ExecutedAt    time.Time
}
