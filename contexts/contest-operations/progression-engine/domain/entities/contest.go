package entities

import "time"

type StepType string

const (
	StepDraft          StepType = "DRAFT"
	StepRegistration   StepType = "REGISTRATION"
	StepPreSelection   StepType = "PRE_SELECTION"
	StepJuryEvaluation StepType = "JURY_EVALUATION"
	StepResult         StepType = "RESULT"
)

// StepSequence is the canonical five-step contest lifecycle. StepResult is
// terminal and has no outbound transition.
var StepSequence = []StepType{
	StepDraft,
	StepRegistration,
	StepPreSelection,
	StepJuryEvaluation,
	StepResult,
}

func (s StepType) Valid() bool {
	for _, step := range StepSequence {
		if step == s {
			return true
		}
	}
	return false
}

// NextStep returns the immediate successor of the given step. The second
// return is false for StepResult and unknown steps.
func NextStep(current StepType) (StepType, bool) {
	for i, step := range StepSequence {
		if step == current && i+1 < len(StepSequence) {
			return StepSequence[i+1], true
		}
	}
	return "", false
}

// WorkflowStep is a per-contest step definition. MinCandidates of zero means
// the step has no candidate gate.
type WorkflowStep struct {
	StepID        string
	ContestID     string
	Type          StepType
	Name          string
	Order         int
	MinCandidates int
}

type Contest struct {
	ContestID      string
	Title          string
	StartsAt       time.Time
	EndsAt         time.Time
	MaxCandidates  int
	CurrentStep    StepType
	IsActive       bool
	Steps          []WorkflowStep
	CandidateCount int
}

// StepDefinition looks up a step definition by type.
func (c Contest) StepDefinition(stepType StepType) (WorkflowStep, bool) {
	for _, step := range c.Steps {
		if step.Type == stepType {
			return step, true
		}
	}
	return WorkflowStep{}, false
}

// StepHistory is an append-only transition log entry. Entries are never
// updated or deleted.
type StepHistory struct {
	EntryID     string
	ContestID   string
	FromStep    StepType
	ToStep      StepType
	TriggeredBy string
	Reason      string
	OccurredAt  time.Time
}
