package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
)

type contestModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Title         string    `gorm:"column:title"`
	StartsAt      time.Time `gorm:"column:starts_at"`
	EndsAt        time.Time `gorm:"column:ends_at"`
	MaxCandidates int       `gorm:"column:max_candidates"`
	CurrentStep   string    `gorm:"column:current_step"`
	IsActive      bool      `gorm:"column:is_active"`
}

func (contestModel) TableName() string {
	return "contests"
}

type workflowStepModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	ContestID     string `gorm:"column:contest_id"`
	Type          string `gorm:"column:type"`
	Name          string `gorm:"column:name"`
	StepOrder     int    `gorm:"column:step_order"`
	MinCandidates int    `gorm:"column:min_candidates"`
}

func (workflowStepModel) TableName() string {
	return "contest_steps"
}

func (m workflowStepModel) toEntity() entities.WorkflowStep {
	return entities.WorkflowStep{
		StepID:        m.ID,
		ContestID:     m.ContestID,
		Type:          entities.StepType(m.Type),
		Name:          m.Name,
		Order:         m.StepOrder,
		MinCandidates: m.MinCandidates,
	}
}

type stepHistoryModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ContestID   string    `gorm:"column:contest_id"`
	FromStep    string    `gorm:"column:from_step"`
	ToStep      string    `gorm:"column:to_step"`
	TriggeredBy string    `gorm:"column:triggered_by"`
	Reason      string    `gorm:"column:reason"`
	OccurredAt  time.Time `gorm:"column:occurred_at"`
}

func (stepHistoryModel) TableName() string {
	return "contest_step_history"
}

func stepHistoryModelFromEntity(entry entities.StepHistory) stepHistoryModel {
	row := stepHistoryModel{
		ID:          strings.TrimSpace(entry.EntryID),
		ContestID:   strings.TrimSpace(entry.ContestID),
		FromStep:    string(entry.FromStep),
		ToStep:      string(entry.ToStep),
		TriggeredBy: strings.TrimSpace(entry.TriggeredBy),
		Reason:      strings.TrimSpace(entry.Reason),
		OccurredAt:  entry.OccurredAt.UTC(),
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}
	return row
}

func (m stepHistoryModel) toEntity() entities.StepHistory {
	return entities.StepHistory{
		EntryID:     m.ID,
		ContestID:   m.ContestID,
		FromStep:    entities.StepType(m.FromStep),
		ToStep:      entities.StepType(m.ToStep),
		TriggeredBy: m.TriggeredBy,
		Reason:      m.Reason,
		OccurredAt:  m.OccurredAt.UTC(),
	}
}

type dynamicRuleModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ContestID  string    `gorm:"column:contest_id"`
	Name       string    `gorm:"column:name"`
	Kind       string    `gorm:"column:kind"`
	RuleOrder  int       `gorm:"column:rule_order"`
	IsBlocking bool      `gorm:"column:is_blocking"`
	IsActive   bool      `gorm:"column:is_active"`
	Config     []byte    `gorm:"column:config;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (dynamicRuleModel) TableName() string {
	return "dynamic_rules"
}

type ruleConfigPayload struct {
	MinAge         int `json:"minAge,omitempty"`
	MaxAge         int `json:"maxAge,omitempty"`
	MinSubmissions int `json:"minSubmissions,omitempty"`
	MaxCandidates  int `json:"maxCandidates,omitempty"`
}

func (m dynamicRuleModel) toEntity() entities.DynamicRule {
	var payload ruleConfigPayload
	if len(m.Config) > 0 {
		// Malformed config payloads surface as unset fields; strategies
		// report them as configuration errors.
		_ = json.Unmarshal(m.Config, &payload)
	}
	return entities.DynamicRule{
		RuleID:     m.ID,
		ContestID:  m.ContestID,
		Name:       m.Name,
		Kind:       entities.RuleKind(m.Kind),
		Order:      m.RuleOrder,
		IsBlocking: m.IsBlocking,
		IsActive:   m.IsActive,
		Config: entities.RuleConfig{
			MinAge:         payload.MinAge,
			MaxAge:         payload.MaxAge,
			MinSubmissions: payload.MinSubmissions,
			MaxCandidates:  payload.MaxCandidates,
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type ruleExecutionLogModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	RuleID        string    `gorm:"column:rule_id"`
	ExecutedBy    string    `gorm:"column:executed_by"`
	Success       bool      `gorm:"column:success"`
	AffectedCount int       `gorm:"column:affected_count"`
	ErrorMessage  string    `gorm:"column:error_message"`
	ExecutedAt    time.Time `gorm:"column:executed_at"`
}

func (ruleExecutionLogModel) TableName() string {
	return "rule_execution_logs"
}

func ruleLogModelFromEntity(entry entities.RuleExecutionLog) ruleExecutionLogModel {
	row := ruleExecutionLogModel{
		ID:            strings.TrimSpace(entry.LogID),
		RuleID:        strings.TrimSpace(entry.RuleID),
		ExecutedBy:    strings.TrimSpace(entry.ExecutedBy),
		Success:       entry.Success,
		AffectedCount: entry.AffectedCount,
		ErrorMessage:  entry.ErrorMessage,
		ExecutedAt:    entry.ExecutedAt.UTC(),
	}
	if row.ExecutedAt.IsZero() {
		row.ExecutedAt = time.Now().UTC()
	}
	return row
}

func (m ruleExecutionLogModel) toEntity() entities.RuleExecutionLog {
	return entities.RuleExecutionLog{
		LogID:         m.ID,
		RuleID:        m.RuleID,
		ExecutedBy:    m.ExecutedBy,
		Success:       m.Success,
		AffectedCount: m.AffectedCount,
		ErrorMessage:  m.ErrorMessage,
		ExecutedAt:    m.ExecutedAt.UTC(),
	}
}

type candidateModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	ContestID         string    `gorm:"column:contest_id"`
	UserID            string    `gorm:"column:user_id"`
	Status            string    `gorm:"column:status"`
	EliminationReason string    `gorm:"column:elimination_reason"`
	RegisteredAt      time.Time `gorm:"column:registered_at"`
	FirstName         string    `gorm:"column:first_name"`
	LastName          string    `gorm:"column:last_name"`
	Age               int       `gorm:"column:age"`
	Institution       string    `gorm:"column:institution"`
	SubmissionCount   int       `gorm:"column:submission_count"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID:       m.ID,
		ContestID:         m.ContestID,
		UserID:            m.UserID,
		Status:            entities.CandidateStatus(m.Status),
		EliminationReason: m.EliminationReason,
		RegisteredAt:      m.RegisteredAt.UTC(),
		Profile: entities.CandidateProfile{
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Age:         m.Age,
			Institution: m.Institution,
		},
		SubmissionCount: m.SubmissionCount,
	}
}

type scoreModel struct {
	ID               string   `gorm:"column:id;primaryKey"`
	CandidateID      string   `gorm:"column:candidate_id"`
	JuryMemberID     string   `gorm:"column:jury_member_id"`
	ScoreSheetID     string   `gorm:"column:score_sheet_id"`
	TotalScore       *float64 `gorm:"column:total_score"`
	IsAnomaly        bool     `gorm:"column:is_anomaly"`
	AnomalyReason    string   `gorm:"column:anomaly_reason"`
	AnomalyThreshold float64  `gorm:"column:anomaly_threshold"`
	NeedsReview      bool     `gorm:"column:needs_review"`
}

func (scoreModel) TableName() string {
	return "scores"
}

func (m scoreModel) toEntity(criteria []criteriaScoreModel) entities.Score {
	score := entities.Score{
		ScoreID:          m.ID,
		CandidateID:      m.CandidateID,
		JuryMemberID:     m.JuryMemberID,
		ScoreSheetID:     m.ScoreSheetID,
		TotalScore:       m.TotalScore,
		IsAnomaly:        m.IsAnomaly,
		AnomalyReason:    m.AnomalyReason,
		AnomalyThreshold: m.AnomalyThreshold,
		NeedsReview:      m.NeedsReview,
	}
	for _, row := range criteria {
		score.CriteriaScores = append(score.CriteriaScores, entities.CriteriaScore{
			Criteria: row.Criteria,
			Value:    row.Value,
			Weight:   row.Weight,
		})
	}
	return score
}

type criteriaScoreModel struct {
	ID       string  `gorm:"column:id;primaryKey"`
	ScoreID  string  `gorm:"column:score_id"`
	Criteria string  `gorm:"column:criteria"`
	Value    float64 `gorm:"column:value"`
	Weight   float64 `gorm:"column:weight"`
}

func (criteriaScoreModel) TableName() string {
	return "criteria_scores"
}

type juryMemberModel struct {
	ID                   string `gorm:"column:id;primaryKey"`
	ContestID            string `gorm:"column:contest_id"`
	UserID               string `gorm:"column:user_id"`
	IsActive             bool   `gorm:"column:is_active"`
	CurrentLoad          int    `gorm:"column:current_load"`
	MaxCandidates        int    `gorm:"column:max_candidates"`
	Institution          string `gorm:"column:institution"`
	ConflictInstitutions []byte `gorm:"column:conflict_institutions;type:jsonb"`
}

func (juryMemberModel) TableName() string {
	return "jury_members"
}

func (m juryMemberModel) toEntity() entities.JuryMember {
	var conflicts []string
	if len(m.ConflictInstitutions) > 0 {
		_ = json.Unmarshal(m.ConflictInstitutions, &conflicts)
	}
	return entities.JuryMember{
		JuryMemberID:         m.ID,
		ContestID:            m.ContestID,
		UserID:               m.UserID,
		IsActive:             m.IsActive,
		CurrentLoad:          m.CurrentLoad,
		MaxCandidates:        m.MaxCandidates,
		Institution:          m.Institution,
		ConflictInstitutions: conflicts,
	}
}

type juryAssignmentModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	JuryMemberID  string    `gorm:"column:jury_member_id"`
	CandidateID   string    `gorm:"column:candidate_id"`
	ContestID     string    `gorm:"column:contest_id"`
	WorkloadScore int       `gorm:"column:workload_score"`
	IsActive      bool      `gorm:"column:is_active"`
	AssignedAt    time.Time `gorm:"column:assigned_at"`
}

func (juryAssignmentModel) TableName() string {
	return "jury_assignments"
}

func assignmentModelFromEntity(assignment entities.JuryAssignment) juryAssignmentModel {
	row := juryAssignmentModel{
		ID:            strings.TrimSpace(assignment.AssignmentID),
		JuryMemberID:  strings.TrimSpace(assignment.JuryMemberID),
		CandidateID:   strings.TrimSpace(assignment.CandidateID),
		ContestID:     strings.TrimSpace(assignment.ContestID),
		WorkloadScore: assignment.WorkloadScore,
		IsActive:      assignment.IsActive,
		AssignedAt:    assignment.AssignedAt.UTC(),
	}
	if row.AssignedAt.IsZero() {
		row.AssignedAt = time.Now().UTC()
	}
	return row
}

func (m juryAssignmentModel) toEntity() entities.JuryAssignment {
	return entities.JuryAssignment{
		AssignmentID:  m.ID,
		JuryMemberID:  m.JuryMemberID,
		CandidateID:   m.CandidateID,
		ContestID:     m.ContestID,
		WorkloadScore: m.WorkloadScore,
		IsActive:      m.IsActive,
		AssignedAt:    m.AssignedAt.UTC(),
	}
}

type scoreCalculationModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	CandidateID     string    `gorm:"column:candidate_id"`
	ContestID       string    `gorm:"column:contest_id"`
	CalculationType string    `gorm:"column:calculation_type"`
	Formula         []byte    `gorm:"column:formula;type:jsonb"`
	Result          float64   `gorm:"column:result"`
	CalculatedAt    time.Time `gorm:"column:calculated_at"`
}

func (scoreCalculationModel) TableName() string {
	return "score_calculations"
}

func calculationModelFromEntity(calculation entities.ScoreCalculation) (scoreCalculationModel, error) {
	formula, err := json.Marshal(map[string]map[string]float64{"weights": calculation.Formula})
	if err != nil {
		return scoreCalculationModel{}, err
	}
	row := scoreCalculationModel{
		ID:              strings.TrimSpace(calculation.CalculationID),
		CandidateID:     strings.TrimSpace(calculation.CandidateID),
		ContestID:       strings.TrimSpace(calculation.ContestID),
		CalculationType: calculation.CalculationType,
		Formula:         formula,
		Result:          calculation.Result,
		CalculatedAt:    calculation.CalculatedAt.UTC(),
	}
	if row.CalculatedAt.IsZero() {
		row.CalculatedAt = time.Now().UTC()
	}
	return row, nil
}

func (m scoreCalculationModel) toEntity() entities.ScoreCalculation {
	var formula struct {
		Weights map[string]float64 `json:"weights"`
	}
	if len(m.Formula) > 0 {
		_ = json.Unmarshal(m.Formula, &formula)
	}
	return entities.ScoreCalculation{
		CalculationID:   m.ID,
		CandidateID:     m.CandidateID,
		ContestID:       m.ContestID,
		CalculationType: m.CalculationType,
		Formula:         formula.Weights,
		Result:          m.Result,
		CalculatedAt:    m.CalculatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "contest_outbox"
}
