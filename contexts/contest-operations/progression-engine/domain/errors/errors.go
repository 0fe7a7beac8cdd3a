package errors

import "errors"

var (
	ErrContestNotFound    = errors.New("contest not found")
	ErrInvalidTransition  = errors.New("invalid step transition")
	ErrNoStrategy         = errors.New("no strategy for rule type")
	ErrRuleConfig         = errors.New("rule configuration incomplete")
	ErrNoJuryOrCandidates = errors.New("no jury members or candidates available")
	ErrNoAvailableJury    = errors.New("no available jury for candidate")
	ErrNoCandidates       = errors.New("no candidates found for contest")
	ErrScoreNotFound      = errors.New("score not found")
	ErrConflict           = errors.New("assignment conflict")
)
