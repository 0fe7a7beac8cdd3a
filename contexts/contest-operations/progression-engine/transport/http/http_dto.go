package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TransitionRequest struct {
	ToStep      string `json:"to_step"`
	TriggeredBy string `json:"triggered_by"`
}

type TransitionResponse struct {
	Success  bool   `json:"success"`
	FromStep string `json:"from_step"`
	NewStep  string `json:"new_step"`
}

type ExecuteRulesRequest struct {
	ExecutedBy string `json:"executed_by"`
}

type RuleResultDTO struct {
	RuleID        string `json:"rule_id"`
	RuleName      string `json:"rule_name"`
	RuleType      string `json:"rule_type"`
	Success       bool   `json:"success"`
	AffectedCount int    `json:"affected_count"`
	Error         string `json:"error,omitempty"`
}

type ExecuteRulesResponse struct {
	ContestID     string          `json:"contest_id"`
	TotalRules    int             `json:"total_rules"`
	ExecutedRules int             `json:"executed_rules"`
	Results       []RuleResultDTO `json:"results"`
}

type JuryAssignmentDTO struct {
	AssignmentID  string `json:"assignment_id"`
	JuryMemberID  string `json:"jury_member_id"`
	CandidateID   string `json:"candidate_id"`
	ContestID     string `json:"contest_id"`
	WorkloadScore int    `json:"workload_score"`
	IsActive      bool   `json:"is_active"`
	AssignedAt    string `json:"assigned_at"`
}

type AssignJuryResponse struct {
	ContestID       string              `json:"contest_id"`
	AssignmentCount int                 `json:"assignment_count"`
	Assignments     []JuryAssignmentDTO `json:"assignments"`
}

type AnomalyDTO struct {
	ScoreID   string  `json:"score_id"`
	Value     float64 `json:"value"`
	Deviation float64 `json:"deviation"`
	Reason    string  `json:"reason"`
}

type CandidateScoreDTO struct {
	CandidateID string             `json:"candidate_id"`
	FinalScore  float64            `json:"final_score"`
	MedianScore float64            `json:"median_score"`
	Anomalies   []AnomalyDTO       `json:"anomalies"`
	Weights     map[string]float64 `json:"weights"`
}

type CalculateScoresResponse struct {
	ContestID        string              `json:"contest_id"`
	TotalCandidates  int                 `json:"total_candidates"`
	CalculatedScores int                 `json:"calculated_scores"`
	Results          []CandidateScoreDTO `json:"results"`
}

type RankingDTO struct {
	Rank            int     `json:"rank"`
	CandidateID     string  `json:"candidate_id"`
	FinalScore      float64 `json:"final_score"`
	CalculationType string  `json:"calculation_type"`
	CalculatedAt    string  `json:"calculated_at"`
}

type ContestResultsResponse struct {
	ContestID    string       `json:"contest_id"`
	TotalResults int          `json:"total_results"`
	Rankings     []RankingDTO `json:"rankings"`
}

type RuleExecutionLogDTO struct {
	LogID         string `json:"log_id"`
	RuleID        string `json:"rule_id"`
	ExecutedBy    string `json:"executed_by"`
	Success       bool   `json:"success"`
	AffectedCount int    `json:"affected_count"`
	ErrorMessage  string `json:"error_message,omitempty"`
	ExecutedAt    string `json:"executed_at"`
}

type RuleHistoryDTO struct {
	RuleID     string                `json:"rule_id"`
	RuleName   string                `json:"rule_name"`
	RuleType   string                `json:"rule_type"`
	IsActive   bool                  `json:"is_active"`
	Executions []RuleExecutionLogDTO `json:"executions"`
}

type RuleHistoryResponse struct {
	ContestID string           `json:"contest_id"`
	Items     []RuleHistoryDTO `json:"items"`
}

type JuryAssignmentsResponse struct {
	ContestID string              `json:"contest_id"`
	Items     []JuryAssignmentDTO `json:"items"`
}

type WorkflowStepDTO struct {
	StepID        string `json:"step_id"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Order         int    `json:"order"`
	MinCandidates int    `json:"min_candidates"`
}

type ContestResponse struct {
	ContestID      string            `json:"contest_id"`
	Title          string            `json:"title"`
	StartsAt       string            `json:"starts_at"`
	EndsAt         string            `json:"ends_at"`
	MaxCandidates  int               `json:"max_candidates"`
	CurrentStep    string            `json:"current_step"`
	IsActive       bool              `json:"is_active"`
	CandidateCount int               `json:"candidate_count"`
	Steps          []WorkflowStepDTO `json:"steps"`
}

type StepHistoryDTO struct {
	EntryID     string `json:"entry_id"`
	ContestID   string `json:"contest_id"`
	FromStep    string `json:"from_step"`
	ToStep      string `json:"to_step"`
	TriggeredBy string `json:"triggered_by"`
	Reason      string `json:"reason"`
	OccurredAt  string `json:"occurred_at"`
}

type StepHistoryResponse struct {
	ContestID string           `json:"contest_id"`
	Items     []StepHistoryDTO `json:"items"`
}
