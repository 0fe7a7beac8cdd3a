package entities

import "time"

// DefaultJuryCapacity applies when a jury member row has no explicit
// maxCandidates value.
const DefaultJuryCapacity = 10

type JuryMember struct {
	JuryMemberID         string
	ContestID            string
	UserID               string
	IsActive             bool
	CurrentLoad          int
	MaxCandidates        int
	Institution          string
	ConflictInstitutions []string
	Assignments          []JuryAssignment
}

func (j JuryMember) Capacity() int {
	if j.MaxCandidates > 0 {
		return j.MaxCandidates
	}
	return DefaultJuryCapacity
}

// HasConflictWith reports whether the candidate institution is in the jury
// member's conflict set. Empty institutions never conflict.
func (j JuryMember) HasConflictWith(institution string) bool {
	if institution == "" {
		return false
	}
	for _, conflicted := range j.ConflictInstitutions {
		if conflicted == institution {
			return true
		}
	}
	return false
}

func (j JuryMember) HasActiveAssignment(candidateID string) bool {
	for _, assignment := range j.Assignments {
		if assignment.CandidateID == candidateID && assignment.IsActive {
			return true
		}
	}
	return false
}

// JuryAssignment links one jury member to one candidate. At most one active
// assignment may exist per (jury member, candidate) pair.
type JuryAssignment struct {
	AssignmentID  string
	JuryMemberID  string
	CandidateID   string
	ContestID     string
	WorkloadScore int
	IsActive      bool
	AssignedAt    time.Time
}
