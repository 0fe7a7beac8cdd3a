package entities

import "time"

// CriteriaScore is one criterion value inside a jury member's score sheet
// submission. Weight is copied from the score sheet rubric.
type CriteriaScore struct {
	Criteria string
	Value    float64
	Weight   float64
}

// Score is one jury member's evaluation of one candidate. TotalScore stays
// nil until computed by the evaluating jury member.
type Score struct {
	ScoreID          string
	CandidateID      string
	JuryMemberID     string
	ScoreSheetID     string
	TotalScore       *float64
	CriteriaScores   []CriteriaScore
	IsAnomaly        bool
	AnomalyReason    string
	AnomalyThreshold float64
	NeedsReview      bool
}

// CriteriaWeight sums the weights of the criteria actually present in this
// score. Rubric weights need not sum to 1; aggregation normalizes by the
// weight total observed per score.
func (s Score) CriteriaWeight() float64 {
	var total float64
	for _, cs := range s.CriteriaScores {
		total += cs.Weight
	}
	return total
}

// ScoreCalculation is an immutable per-candidate scoring result. One row is
// appended per scoring run; history is preserved.
type ScoreCalculation struct {
	CalculationID   string
	CandidateID     string
	ContestID       string
	CalculationType string
	Formula         map[string]float64
	Result          float64
	CalculatedAt    time.Time
}
