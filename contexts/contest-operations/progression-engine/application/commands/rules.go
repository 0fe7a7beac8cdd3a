package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	application "palmares/contexts/contest-operations/progression-engine/application"
	"palmares/contexts/contest-operations/progression-engine/application/rules"
	"palmares/contexts/contest-operations/progression-engine/domain/entities"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

type ExecuteRulesCommand struct {
	ContestID  string
	ExecutedBy string
}

// RuleResult is one rule's outcome within a pipeline run.
type RuleResult struct {
	RuleID        string
	RuleName      string
	Kind          entities.RuleKind
	Success       bool
	AffectedCount int
	Error         string
}

type ExecuteRulesResult struct {
	ContestID     string
	TotalRules    int
	ExecutedRules int
	Results       []RuleResult
}

// RuleUseCase runs the contest's active rules in order, applies blocking
// semantics, and appends one execution log entry per attempt. Failures local
// to one rule are recorded, not raised; a blocking rule's failure halts the
// remainder of the run.
type RuleUseCase struct {
	Contests   ports.ContestRepository
	Rules      ports.RuleRepository
	Candidates ports.CandidateRepository
	Strategies *rules.Registry
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RuleUseCase) ExecuteRules(ctx context.Context, cmd ExecuteRulesCommand) (ExecuteRulesResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestID := strings.TrimSpace(cmd.ContestID)
	executedBy := strings.TrimSpace(cmd.ExecutedBy)
	if executedBy == "" {
		executedBy = "SYSTEM"
	}
	logger.Info("rule execution started",
		"event", "rules_execution_started",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"executed_by", executedBy,
	)

	// Contest existence and the active rule list are independent reads.
	var activeRules []entities.DynamicRule
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		_, err := uc.Contests.GetContest(groupCtx, contestID)
		return err
	})
	group.Go(func() error {
		loaded, err := uc.Rules.ListActiveRules(groupCtx, contestID)
		if err != nil {
			return err
		}
		activeRules = loaded
		return nil
	})
	if err := group.Wait(); err != nil {
		return ExecuteRulesResult{}, err
	}

	result := ExecuteRulesResult{
		ContestID:  contestID,
		TotalRules: len(activeRules),
	}
	if len(activeRules) == 0 {
		logger.Info("rule execution skipped",
			"event", "rules_execution_skipped",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"cause", "no active rules",
		)
		return result, nil
	}

	for _, rule := range activeRules {
		ruleResult := uc.executeRule(ctx, rule, executedBy)
		result.Results = append(result.Results, ruleResult)
		if rule.IsBlocking && !ruleResult.Success {
			logger.Warn("rule pipeline halted by blocking rule",
				"event", "rules_execution_blocked",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"contest_id", contestID,
				"rule_id", rule.RuleID,
			)
			break
		}
	}
	result.ExecutedRules = len(result.Results)

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, EventRulesExecuted, contestID, resolveNow(uc.Clock), map[string]any{
		"total_rules":    result.TotalRules,
		"executed_rules": result.ExecutedRules,
		"executed_by":    executedBy,
	}); err != nil {
		logger.Warn("rule execution event append failed",
			"event", "rules_execution_event_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"contest_id", contestID,
			"error", err.Error(),
		)
	}

	logger.Info("rule execution completed",
		"event", "rules_execution_completed",
		"module", "contest-operations/progression-engine",
		"layer", "application",
		"contest_id", contestID,
		"total_rules", result.TotalRules,
		"executed_rules", result.ExecutedRules,
	)
	return result, nil
}

func (uc RuleUseCase) executeRule(ctx context.Context, rule entities.DynamicRule, executedBy string) RuleResult {
	result := RuleResult{
		RuleID:   rule.RuleID,
		RuleName: rule.Name,
		Kind:     rule.Kind,
	}

	strategy, ok := uc.Strategies.Resolve(rule.Kind)
	if !ok {
		result.Error = fmt.Errorf("%w: %s", domainerrors.ErrNoStrategy, rule.Kind).Error()
		uc.logExecution(ctx, rule, executedBy, false, 0, result.Error)
		return result
	}

	candidates, err := uc.Candidates.ListCandidatesByStatus(ctx, rule.ContestID, entities.CandidateRegistered)
	if err != nil {
		result.Error = err.Error()
		uc.logExecution(ctx, rule, executedBy, false, 0, result.Error)
		return result
	}

	outcome, err := strategy.Execute(rule, candidates)
	if err != nil {
		result.Error = err.Error()
		uc.logExecution(ctx, rule, executedBy, false, 0, result.Error)
		return result
	}

	affected := 0
	if len(outcome.Eliminations) > 0 {
		affected, err = uc.Candidates.EliminateCandidates(ctx, rule.ContestID, outcome.Eliminations)
		if err != nil {
			result.Error = err.Error()
			uc.logExecution(ctx, rule, executedBy, false, 0, result.Error)
			return result
		}
	}

	result.Success = true
	result.AffectedCount = affected
	uc.logExecution(ctx, rule, executedBy, true, affected, "")
	return result
}

// logExecution appends the audit entry for one attempt. The trail is
// insert-only; a failed append is logged but never fails the rule itself.
func (uc RuleUseCase) logExecution(
	ctx context.Context,
	rule entities.DynamicRule,
	executedBy string,
	success bool,
	affectedCount int,
	errorMessage string,
) {
	logger := application.ResolveLogger(uc.Logger)
	logID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("rule execution log id generation failed",
			"event", "rules_execution_log_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"rule_id", rule.RuleID,
			"error", err.Error(),
		)
		return
	}
	entry := entities.RuleExecutionLog{
		LogID:         logID,
		RuleID:        rule.RuleID,
		ExecutedBy:    executedBy,
		Success:       success,
		AffectedCount: affectedCount,
		ErrorMessage:  errorMessage,
		ExecutedAt:    resolveNow(uc.Clock),
	}
	if err := uc.Rules.AppendExecutionLog(ctx, entry); err != nil {
		logger.Error("rule execution log append failed",
			"event", "rules_execution_log_failed",
			"module", "contest-operations/progression-engine",
			"layer", "application",
			"rule_id", rule.RuleID,
			"error", err.Error(),
		)
	}
}
