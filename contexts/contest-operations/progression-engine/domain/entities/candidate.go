package entities

import "time"

type CandidateStatus string

const (
	CandidateRegistered CandidateStatus = "REGISTERED"
	CandidateQualified  CandidateStatus = "QUALIFIED"
	CandidateEliminated CandidateStatus = "ELIMINATED"
)

// CandidateProfile carries the user attributes rule strategies and the jury
// assignment conflict check evaluate.
type CandidateProfile struct {
	FirstName   string
	LastName    string
	Age         int
	Institution string
}

type Candidate struct {
	CandidateID       string
	ContestID         string
	UserID            string
	Status            CandidateStatus
	EliminationReason string
	RegisteredAt      time.Time
	Profile           CandidateProfile
	SubmissionCount   int
	Scores            []Score
}
