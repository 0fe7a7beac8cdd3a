package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository is the GORM-backed implementation of every progression-engine
// persistence port.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ContestRepository.

func (r *Repository) GetContest(ctx context.Context, contestID string) (entities.Contest, error) {
	contestID = strings.TrimSpace(contestID)

	var row contestModel
	err := r.db.WithContext(ctx).
		Where("id = ?", contestID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contest{}, domainerrors.ErrContestNotFound
		}
		return entities.Contest{}, r.logError("progression_repo_get_contest_failed", err, "contest_id", contestID)
	}

	var stepRows []workflowStepModel
	err = r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("step_order ASC").
		Find(&stepRows).
		Error
	if err != nil {
		return entities.Contest{}, r.logError("progression_repo_get_contest_steps_failed", err, "contest_id", contestID)
	}

	var candidateCount int64
	err = r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("contest_id = ?", contestID).
		Count(&candidateCount).
		Error
	if err != nil {
		return entities.Contest{}, r.logError("progression_repo_get_contest_candidates_failed", err, "contest_id", contestID)
	}

	contest := entities.Contest{
		ContestID:      row.ID,
		Title:          row.Title,
		StartsAt:       row.StartsAt.UTC(),
		EndsAt:         row.EndsAt.UTC(),
		MaxCandidates:  row.MaxCandidates,
		CurrentStep:    entities.StepType(row.CurrentStep),
		IsActive:       row.IsActive,
		CandidateCount: int(candidateCount),
	}
	for _, stepRow := range stepRows {
		contest.Steps = append(contest.Steps, stepRow.toEntity())
	}
	return contest, nil
}

func (r *Repository) UpdateCurrentStep(ctx context.Context, contestID string, step entities.StepType) error {
	contestID = strings.TrimSpace(contestID)
	update := r.db.WithContext(ctx).
		Model(&contestModel{}).
		Where("id = ?", contestID).
		Update("current_step", string(step))
	if update.Error != nil {
		return r.logError("progression_repo_update_step_failed", update.Error, "contest_id", contestID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrContestNotFound
	}
	return nil
}

func (r *Repository) AppendStepHistory(ctx context.Context, entry entities.StepHistory) error {
	row := stepHistoryModelFromEntity(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("progression_repo_append_history_failed", err,
			"contest_id", row.ContestID,
			"to_step", row.ToStep,
		)
	}
	return nil
}

func (r *Repository) ListStepHistory(ctx context.Context, contestID string) ([]entities.StepHistory, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []stepHistoryModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("occurred_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_history_failed", err, "contest_id", contestID)
	}
	entries := make([]entities.StepHistory, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries, nil
}

// RuleRepository.

func (r *Repository) ListActiveRules(ctx context.Context, contestID string) ([]entities.DynamicRule, error) {
	return r.listRules(ctx, contestID, true)
}

func (r *Repository) ListRules(ctx context.Context, contestID string) ([]entities.DynamicRule, error) {
	return r.listRules(ctx, contestID, false)
}

func (r *Repository) listRules(ctx context.Context, contestID string, activeOnly bool) ([]entities.DynamicRule, error) {
	contestID = strings.TrimSpace(contestID)
	tx := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var rows []dynamicRuleModel
	err := tx.Order("rule_order ASC").Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, r.logError("progression_repo_list_rules_failed", err, "contest_id", contestID)
	}
	rules := make([]entities.DynamicRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, row.toEntity())
	}
	return rules, nil
}

func (r *Repository) AppendExecutionLog(ctx context.Context, entry entities.RuleExecutionLog) error {
	row := ruleLogModelFromEntity(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("progression_repo_append_rule_log_failed", err, "rule_id", row.RuleID)
	}
	return nil
}

func (r *Repository) ListExecutionLogs(ctx context.Context, ruleID string, limit int) ([]entities.RuleExecutionLog, error) {
	ruleID = strings.TrimSpace(ruleID)
	tx := r.db.WithContext(ctx).
		Where("rule_id = ?", ruleID).
		Order("executed_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []ruleExecutionLogModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("progression_repo_list_rule_logs_failed", err, "rule_id", ruleID)
	}
	entries := make([]entities.RuleExecutionLog, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries, nil
}

// CandidateRepository.

func (r *Repository) ListCandidatesByStatus(
	ctx context.Context,
	contestID string,
	status entities.CandidateStatus,
) ([]entities.Candidate, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Where("status = ?", string(status)).
		Order("registered_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_candidates_failed", err,
			"contest_id", contestID,
			"status", string(status),
		)
	}
	return r.attachScores(ctx, rows)
}

func (r *Repository) ListCandidatesWithScores(ctx context.Context, contestID string) ([]entities.Candidate, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("registered_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_candidates_failed", err, "contest_id", contestID)
	}
	return r.attachScores(ctx, rows)
}

func (r *Repository) attachScores(ctx context.Context, rows []candidateModel) ([]entities.Candidate, error) {
	candidates := make([]entities.Candidate, 0, len(rows))
	if len(rows) == 0 {
		return candidates, nil
	}

	candidateIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		candidateIDs = append(candidateIDs, row.ID)
	}

	var scoreRows []scoreModel
	err := r.db.WithContext(ctx).
		Where("candidate_id IN ?", candidateIDs).
		Find(&scoreRows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_scores_failed", err)
	}

	criteriaByScore := make(map[string][]criteriaScoreModel)
	if len(scoreRows) > 0 {
		scoreIDs := make([]string, 0, len(scoreRows))
		for _, scoreRow := range scoreRows {
			scoreIDs = append(scoreIDs, scoreRow.ID)
		}
		var criteriaRows []criteriaScoreModel
		err = r.db.WithContext(ctx).
			Where("score_id IN ?", scoreIDs).
			Find(&criteriaRows).
			Error
		if err != nil {
			return nil, r.logError("progression_repo_list_criteria_failed", err)
		}
		for _, criteriaRow := range criteriaRows {
			criteriaByScore[criteriaRow.ScoreID] = append(criteriaByScore[criteriaRow.ScoreID], criteriaRow)
		}
	}

	scoresByCandidate := make(map[string][]entities.Score)
	for _, scoreRow := range scoreRows {
		score := scoreRow.toEntity(criteriaByScore[scoreRow.ID])
		scoresByCandidate[scoreRow.CandidateID] = append(scoresByCandidate[scoreRow.CandidateID], score)
	}

	for _, row := range rows {
		candidate := row.toEntity()
		candidate.Scores = scoresByCandidate[row.ID]
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (r *Repository) EliminateCandidates(
	ctx context.Context,
	contestID string,
	eliminations []ports.Elimination,
) (int, error) {
	contestID = strings.TrimSpace(contestID)
	affected := 0
	for _, elimination := range eliminations {
		update := r.db.WithContext(ctx).
			Model(&candidateModel{}).
			Where("id = ?", strings.TrimSpace(elimination.CandidateID)).
			Where("contest_id = ?", contestID).
			Where("status <> ?", string(entities.CandidateEliminated)).
			Updates(map[string]any{
				"status":             string(entities.CandidateEliminated),
				"elimination_reason": elimination.Reason,
			})
		if update.Error != nil {
			return affected, r.logError("progression_repo_eliminate_failed", update.Error,
				"contest_id", contestID,
				"candidate_id", elimination.CandidateID,
			)
		}
		affected += int(update.RowsAffected)
	}
	return affected, nil
}

// JuryRepository.

func (r *Repository) ListActiveJuryMembers(ctx context.Context, contestID string) ([]entities.JuryMember, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []juryMemberModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_jury_failed", err, "contest_id", contestID)
	}
	if len(rows) == 0 {
		return []entities.JuryMember{}, nil
	}

	juryIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		juryIDs = append(juryIDs, row.ID)
	}
	var assignmentRows []juryAssignmentModel
	err = r.db.WithContext(ctx).
		Where("jury_member_id IN ?", juryIDs).
		Where("is_active = ?", true).
		Find(&assignmentRows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_jury_assignments_failed", err, "contest_id", contestID)
	}
	assignmentsByJury := make(map[string][]entities.JuryAssignment)
	for _, assignmentRow := range assignmentRows {
		assignmentsByJury[assignmentRow.JuryMemberID] = append(
			assignmentsByJury[assignmentRow.JuryMemberID], assignmentRow.toEntity())
	}

	members := make([]entities.JuryMember, 0, len(rows))
	for _, row := range rows {
		jury := row.toEntity()
		jury.Assignments = assignmentsByJury[row.ID]
		members = append(members, jury)
	}
	return members, nil
}

func (r *Repository) CreateAssignments(ctx context.Context, assignments []entities.JuryAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	rows := make([]juryAssignmentModel, 0, len(assignments))
	for _, assignment := range assignments {
		rows = append(rows, assignmentModelFromEntity(assignment))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("progression_repo_create_assignments_failed", err,
			"assignment_count", len(assignments),
		)
	}
	return nil
}

func (r *Repository) UpdateJuryLoad(ctx context.Context, juryMemberID string, load int) error {
	juryMemberID = strings.TrimSpace(juryMemberID)
	update := r.db.WithContext(ctx).
		Model(&juryMemberModel{}).
		Where("id = ?", juryMemberID).
		Update("current_load", load)
	if update.Error != nil {
		return r.logError("progression_repo_update_jury_load_failed", update.Error, "jury_member_id", juryMemberID)
	}
	return nil
}

func (r *Repository) ListActiveAssignments(ctx context.Context, contestID string) ([]entities.JuryAssignment, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []juryAssignmentModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Where("is_active = ?", true).
		Order("assigned_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_assignments_failed", err, "contest_id", contestID)
	}
	assignments := make([]entities.JuryAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toEntity())
	}
	return assignments, nil
}

// ScoreRepository.

func (r *Repository) AppendScoreCalculation(ctx context.Context, calculation entities.ScoreCalculation) error {
	row, err := calculationModelFromEntity(calculation)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("progression_repo_append_calculation_failed", err,
			"contest_id", row.ContestID,
			"candidate_id", row.CandidateID,
		)
	}
	return nil
}

func (r *Repository) ListScoreCalculations(ctx context.Context, contestID string) ([]entities.ScoreCalculation, error) {
	contestID = strings.TrimSpace(contestID)
	var rows []scoreCalculationModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("result DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("progression_repo_list_calculations_failed", err, "contest_id", contestID)
	}
	calculations := make([]entities.ScoreCalculation, 0, len(rows))
	for _, row := range rows {
		calculations = append(calculations, row.toEntity())
	}
	return calculations, nil
}

func (r *Repository) UpdateScoreAnomaly(ctx context.Context, scoreID string, update ports.AnomalyUpdate) error {
	scoreID = strings.TrimSpace(scoreID)
	result := r.db.WithContext(ctx).
		Model(&scoreModel{}).
		Where("id = ?", scoreID).
		Updates(map[string]any{
			"is_anomaly":        update.IsAnomaly,
			"anomaly_reason":    update.AnomalyReason,
			"anomaly_threshold": update.AnomalyThreshold,
			"needs_review":      update.NeedsReview,
		})
	if result.Error != nil {
		return r.logError("progression_repo_update_anomaly_failed", result.Error, "score_id", scoreID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrScoreNotFound
	}
	return nil
}

// Outbox.

func (r *Repository) AppendOutbox(ctx context.Context, message ports.OutboxMessage) error {
	row := outboxModel{
		OutboxID:  strings.TrimSpace(message.MessageID),
		EventType: message.EventType,
		Payload:   message.Payload,
		Status:    outboxStatusPending,
		CreatedAt: message.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("progression_repo_append_outbox_failed", err, "event_type", message.EventType)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []outboxModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("progression_repo_list_outbox_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			MessageID: row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			Status:    row.Status,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, messageID string) error {
	now := time.Now().UTC()
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(messageID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &now,
		})
	if update.Error != nil {
		return r.logError("progression_repo_mark_outbox_failed", update.Error, "message_id", messageID)
	}
	return nil
}

// SystemClock supplies wall-clock time to use cases wired against postgres.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues v4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "contest-operations/progression-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("progression repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ContestRepository = (*Repository)(nil)
var _ ports.RuleRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
var _ ports.JuryRepository = (*Repository)(nil)
var _ ports.ScoreRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxReader = (*Repository)(nil)
