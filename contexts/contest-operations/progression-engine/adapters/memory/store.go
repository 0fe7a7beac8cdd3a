package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-memory implementation of every progression-engine port.
// Unit tests and the in-memory module run against it.
type Store struct {
	mu sync.RWMutex

	contests     map[string]entities.Contest
	stepHistory  []entities.StepHistory
	rules        map[string]entities.DynamicRule
	ruleLogs     []entities.RuleExecutionLog
	candidates   map[string]entities.Candidate
	scores       map[string]entities.Score
	juryMembers  map[string]entities.JuryMember
	assignments  map[string]entities.JuryAssignment
	calculations []entities.ScoreCalculation
	outbox       []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		contests:    make(map[string]entities.Contest),
		rules:       make(map[string]entities.DynamicRule),
		candidates:  make(map[string]entities.Candidate),
		scores:      make(map[string]entities.Score),
		juryMembers: make(map[string]entities.JuryMember),
		assignments: make(map[string]entities.JuryAssignment),
	}
}

// Seeding helpers.

func (s *Store) SetContest(contest entities.Contest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contests[strings.TrimSpace(contest.ContestID)] = contest
}

func (s *Store) SetCandidate(candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) SetJuryMember(jury entities.JuryMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.juryMembers[strings.TrimSpace(jury.JuryMemberID)] = jury
}

func (s *Store) SetRule(rule entities.DynamicRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[strings.TrimSpace(rule.RuleID)] = rule
}

// AddScore attaches a score to its candidate. The score must carry
// CandidateID.
func (s *Store) AddScore(score entities.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[strings.TrimSpace(score.ScoreID)] = score
}

// GetCandidate exposes candidate state for test assertions.
func (s *Store) GetCandidate(candidateID string) (entities.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	return candidate, ok
}

// GetScore exposes score state for test assertions.
func (s *Store) GetScore(scoreID string) (entities.Score, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.scores[strings.TrimSpace(scoreID)]
	return score, ok
}

// GetJuryMember exposes jury state for test assertions.
func (s *Store) GetJuryMember(juryMemberID string) (entities.JuryMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jury, ok := s.juryMembers[strings.TrimSpace(juryMemberID)]
	return jury, ok
}

// RuleLogCount reports how many execution log entries exist for a rule.
func (s *Store) RuleLogCount(ruleID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, entry := range s.ruleLogs {
		if entry.RuleID == strings.TrimSpace(ruleID) {
			count++
		}
	}
	return count
}

// ContestRepository.

func (s *Store) GetContest(_ context.Context, contestID string) (entities.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contest, ok := s.contests[strings.TrimSpace(contestID)]
	if !ok {
		return entities.Contest{}, domainerrors.ErrContestNotFound
	}
	contest.CandidateCount = 0
	for _, candidate := range s.candidates {
		if candidate.ContestID == contest.ContestID {
			contest.CandidateCount++
		}
	}
	return contest, nil
}

func (s *Store) UpdateCurrentStep(_ context.Context, contestID string, step entities.StepType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contest, ok := s.contests[strings.TrimSpace(contestID)]
	if !ok {
		return domainerrors.ErrContestNotFound
	}
	contest.CurrentStep = step
	s.contests[contest.ContestID] = contest
	return nil
}

func (s *Store) AppendStepHistory(_ context.Context, entry entities.StepHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepHistory = append(s.stepHistory, entry)
	return nil
}

func (s *Store) ListStepHistory(_ context.Context, contestID string) ([]entities.StepHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	entries := make([]entities.StepHistory, 0)
	for _, entry := range s.stepHistory {
		if entry.ContestID == contestID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// RuleRepository.

func (s *Store) ListActiveRules(_ context.Context, contestID string) ([]entities.DynamicRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	rules := make([]entities.DynamicRule, 0)
	for _, rule := range s.rules {
		if rule.ContestID == contestID && rule.IsActive {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules, nil
}

func (s *Store) ListRules(_ context.Context, contestID string) ([]entities.DynamicRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	rules := make([]entities.DynamicRule, 0)
	for _, rule := range s.rules {
		if rule.ContestID == contestID {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules, nil
}

func sortRules(rules []entities.DynamicRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Order == rules[j].Order {
			return rules[i].CreatedAt.Before(rules[j].CreatedAt)
		}
		return rules[i].Order < rules[j].Order
	})
}

func (s *Store) AppendExecutionLog(_ context.Context, entry entities.RuleExecutionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ruleLogs = append(s.ruleLogs, entry)
	return nil
}

func (s *Store) ListExecutionLogs(_ context.Context, ruleID string, limit int) ([]entities.RuleExecutionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ruleID = strings.TrimSpace(ruleID)
	entries := make([]entities.RuleExecutionLog, 0)
	for _, entry := range s.ruleLogs {
		if entry.RuleID == ruleID {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ExecutedAt.After(entries[j].ExecutedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// CandidateRepository.

func (s *Store) ListCandidatesByStatus(
	_ context.Context,
	contestID string,
	status entities.CandidateStatus,
) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	candidates := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ContestID == contestID && candidate.Status == status {
			candidates = append(candidates, s.withScores(candidate))
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RegisteredAt.Equal(candidates[j].RegisteredAt) {
			return candidates[i].CandidateID < candidates[j].CandidateID
		}
		return candidates[i].RegisteredAt.Before(candidates[j].RegisteredAt)
	})
	return candidates, nil
}

func (s *Store) ListCandidatesWithScores(_ context.Context, contestID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	candidates := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ContestID == contestID {
			candidates = append(candidates, s.withScores(candidate))
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CandidateID < candidates[j].CandidateID
	})
	return candidates, nil
}

// withScores expects the read lock held.
func (s *Store) withScores(candidate entities.Candidate) entities.Candidate {
	candidate.Scores = nil
	scoreIDs := make([]string, 0)
	for scoreID, score := range s.scores {
		if score.CandidateID == candidate.CandidateID {
			scoreIDs = append(scoreIDs, scoreID)
		}
	}
	sort.Strings(scoreIDs)
	for _, scoreID := range scoreIDs {
		candidate.Scores = append(candidate.Scores, s.scores[scoreID])
	}
	return candidate
}

func (s *Store) EliminateCandidates(
	_ context.Context,
	contestID string,
	eliminations []ports.Elimination,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contestID = strings.TrimSpace(contestID)
	affected := 0
	for _, elimination := range eliminations {
		candidate, ok := s.candidates[elimination.CandidateID]
		if !ok || candidate.ContestID != contestID {
			continue
		}
		if candidate.Status == entities.CandidateEliminated {
			continue
		}
		candidate.Status = entities.CandidateEliminated
		candidate.EliminationReason = elimination.Reason
		s.candidates[candidate.CandidateID] = candidate
		affected++
	}
	return affected, nil
}

// JuryRepository.

func (s *Store) ListActiveJuryMembers(_ context.Context, contestID string) ([]entities.JuryMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	members := make([]entities.JuryMember, 0)
	for _, jury := range s.juryMembers {
		if jury.ContestID != contestID || !jury.IsActive {
			continue
		}
		jury.Assignments = nil
		for _, assignment := range s.assignments {
			if assignment.JuryMemberID == jury.JuryMemberID && assignment.IsActive {
				jury.Assignments = append(jury.Assignments, assignment)
			}
		}
		members = append(members, jury)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JuryMemberID < members[j].JuryMemberID
	})
	return members, nil
}

func (s *Store) CreateAssignments(_ context.Context, assignments []entities.JuryAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assignment := range assignments {
		for _, existing := range s.assignments {
			if existing.IsActive && existing.JuryMemberID == assignment.JuryMemberID &&
				existing.CandidateID == assignment.CandidateID {
				return domainerrors.ErrConflict
			}
		}
	}
	for _, assignment := range assignments {
		s.assignments[assignment.AssignmentID] = assignment
	}
	return nil
}

func (s *Store) UpdateJuryLoad(_ context.Context, juryMemberID string, load int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jury, ok := s.juryMembers[strings.TrimSpace(juryMemberID)]
	if !ok {
		return domainerrors.ErrNoJuryOrCandidates
	}
	jury.CurrentLoad = load
	s.juryMembers[jury.JuryMemberID] = jury
	return nil
}

func (s *Store) ListActiveAssignments(_ context.Context, contestID string) ([]entities.JuryAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	assignments := make([]entities.JuryAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.ContestID == contestID && assignment.IsActive {
			assignments = append(assignments, assignment)
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].AssignmentID < assignments[j].AssignmentID
	})
	return assignments, nil
}

// ScoreRepository.

func (s *Store) AppendScoreCalculation(_ context.Context, calculation entities.ScoreCalculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculations = append(s.calculations, calculation)
	return nil
}

func (s *Store) ListScoreCalculations(_ context.Context, contestID string) ([]entities.ScoreCalculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestID = strings.TrimSpace(contestID)
	calculations := make([]entities.ScoreCalculation, 0)
	for _, calculation := range s.calculations {
		if calculation.ContestID == contestID {
			calculations = append(calculations, calculation)
		}
	}
	sort.SliceStable(calculations, func(i, j int) bool {
		return calculations[i].Result > calculations[j].Result
	})
	return calculations, nil
}

func (s *Store) UpdateScoreAnomaly(_ context.Context, scoreID string, update ports.AnomalyUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.scores[strings.TrimSpace(scoreID)]
	if !ok {
		return domainerrors.ErrScoreNotFound
	}
	score.IsAnomaly = update.IsAnomaly
	score.AnomalyReason = update.AnomalyReason
	score.AnomalyThreshold = update.AnomalyThreshold
	score.NeedsReview = update.NeedsReview
	s.scores[score.ScoreID] = score
	return nil
}

// Outbox.

func (s *Store) AppendOutbox(_ context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, message)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0)
	for _, message := range s.outbox {
		if message.Status == "pending" {
			pending = append(pending, message)
			if limit > 0 && len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, message := range s.outbox {
		if message.MessageID == messageID {
			s.outbox[i].Status = "published"
			return nil
		}
	}
	return nil
}

// PendingOutboxCount exposes outbox depth for test assertions.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, message := range s.outbox {
		if message.Status == "pending" {
			count++
		}
	}
	return count
}

// Clock and IDGenerator.

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
