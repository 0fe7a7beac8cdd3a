package progressionengine

import (
	"log/slog"

	httpadapter "palmares/contexts/contest-operations/progression-engine/adapters/http"
	"palmares/contexts/contest-operations/progression-engine/adapters/memory"
	"palmares/contexts/contest-operations/progression-engine/application/commands"
	"palmares/contexts/contest-operations/progression-engine/application/queries"
	"palmares/contexts/contest-operations/progression-engine/application/rules"
	"palmares/contexts/contest-operations/progression-engine/domain/scoring"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Contests   ports.ContestRepository
	Rules      ports.RuleRepository
	Candidates ports.CandidateRepository
	Jury       ports.JuryRepository
	Scores     ports.ScoreRepository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator

	Strategies       *rules.Registry
	EnforceStepOrder bool
	AnomalyThreshold float64
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	strategies := deps.Strategies
	if strategies == nil {
		strategies = rules.DefaultRegistry()
	}
	anomalyThreshold := deps.AnomalyThreshold
	if anomalyThreshold <= 0 {
		anomalyThreshold = scoring.DefaultAnomalyThreshold
	}

	workflow := commands.WorkflowUseCase{
		Contests:         deps.Contests,
		Outbox:           deps.Outbox,
		Clock:            deps.Clock,
		IDGen:            deps.IDGen,
		EnforceStepOrder: deps.EnforceStepOrder,
		Logger:           deps.Logger,
	}
	ruleExecution := commands.RuleUseCase{
		Contests:   deps.Contests,
		Rules:      deps.Rules,
		Candidates: deps.Candidates,
		Strategies: strategies,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	jury := commands.JuryUseCase{
		Jury:       deps.Jury,
		Candidates: deps.Candidates,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	scoringUseCase := commands.ScoringUseCase{
		Candidates:       deps.Candidates,
		Scores:           deps.Scores,
		Outbox:           deps.Outbox,
		Clock:            deps.Clock,
		IDGen:            deps.IDGen,
		AnomalyThreshold: anomalyThreshold,
		Logger:           deps.Logger,
	}
	results := queries.ResultsUseCase{
		Contests: deps.Contests,
		Rules:    deps.Rules,
		Jury:     deps.Jury,
		Scores:   deps.Scores,
	}

	return Module{
		Handler: httpadapter.Handler{
			Workflow: workflow,
			Rules:    ruleExecution,
			Jury:     jury,
			Scoring:  scoringUseCase,
			Results:  results,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Contests:   store,
		Rules:      store,
		Candidates: store,
		Jury:       store,
		Scores:     store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
