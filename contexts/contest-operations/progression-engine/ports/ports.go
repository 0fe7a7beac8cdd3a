package ports

import (
	"context"
	"time"

	contractsv1 "palmares/contracts/gen/events/v1"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
)

// ContestRepository loads contests with their step definitions and candidate
// count and persists workflow progress.
type ContestRepository interface {
	GetContest(ctx context.Context, contestID string) (entities.Contest, error)
	UpdateCurrentStep(ctx context.Context, contestID string, step entities.StepType) error
	AppendStepHistory(ctx context.Context, entry entities.StepHistory) error
	ListStepHistory(ctx context.Context, contestID string) ([]entities.StepHistory, error)
}

type RuleRepository interface {
	// ListActiveRules returns active rules ordered by execution order
	// ascending, creation time breaking ties.
	ListActiveRules(ctx context.Context, contestID string) ([]entities.DynamicRule, error)
	ListRules(ctx context.Context, contestID string) ([]entities.DynamicRule, error)
	AppendExecutionLog(ctx context.Context, entry entities.RuleExecutionLog) error
	// ListExecutionLogs returns the most recent attempts first.
	ListExecutionLogs(ctx context.Context, ruleID string, limit int) ([]entities.RuleExecutionLog, error)
}

// Elimination is one candidate status change produced by a rule strategy.
type Elimination struct {
	CandidateID string
	Reason      string
}

type CandidateRepository interface {
	// ListCandidatesByStatus returns candidates ordered by registration time
	// ascending, with profile and submission count populated.
	ListCandidatesByStatus(ctx context.Context, contestID string, status entities.CandidateStatus) ([]entities.Candidate, error)
	// ListCandidatesWithScores returns every candidate of the contest with
	// their recorded scores and criteria values.
	ListCandidatesWithScores(ctx context.Context, contestID string) ([]entities.Candidate, error)
	// EliminateCandidates transitions the listed candidates to ELIMINATED and
	// returns the number of rows affected.
	EliminateCandidates(ctx context.Context, contestID string, eliminations []Elimination) (int, error)
}

type JuryRepository interface {
	// ListActiveJuryMembers returns active jury members with their current
	// active assignments and conflict institutions.
	ListActiveJuryMembers(ctx context.Context, contestID string) ([]entities.JuryMember, error)
	CreateAssignments(ctx context.Context, assignments []entities.JuryAssignment) error
	UpdateJuryLoad(ctx context.Context, juryMemberID string, load int) error
	ListActiveAssignments(ctx context.Context, contestID string) ([]entities.JuryAssignment, error)
}

// AnomalyUpdate carries the anomaly fields written back onto a flagged score.
type AnomalyUpdate struct {
	IsAnomaly        bool
	AnomalyReason    string
	AnomalyThreshold float64
	NeedsReview      bool
}

type ScoreRepository interface {
	AppendScoreCalculation(ctx context.Context, calculation entities.ScoreCalculation) error
	// ListScoreCalculations returns calculations ordered by result descending.
	ListScoreCalculations(ctx context.Context, contestID string) ([]entities.ScoreCalculation, error)
	UpdateScoreAnomaly(ctx context.Context, scoreID string, update AnomalyUpdate) error
}

type EventEnvelope = contractsv1.Envelope

// OutboxMessage is persisted alongside state changes; the relay worker
// publishes pending rows to the event bus.
type OutboxMessage struct {
	MessageID string
	EventType string
	Payload   []byte
	Status    string // pending, published
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, message OutboxMessage) error
}

type OutboxReader interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, messageID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
