package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	progressionengine "palmares/contexts/contest-operations/progression-engine"
	domainerrors "palmares/contexts/contest-operations/progression-engine/domain/errors"
	progressionhttp "palmares/contexts/contest-operations/progression-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "palmares/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	progression progressionengine.Module
}

func New(progression progressionengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		progression: progression,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Mux exposes the router for in-process tests.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /contests/{contest_id}", s.handleGetContest)
	s.mux.HandleFunc("POST /contests/{contest_id}/workflow/transition", s.handleTransition)
	s.mux.HandleFunc("GET /contests/{contest_id}/workflow/history", s.handleStepHistory)
	s.mux.HandleFunc("POST /contests/{contest_id}/rules/execute", s.handleExecuteRules)
	s.mux.HandleFunc("GET /contests/{contest_id}/rules/history", s.handleRuleHistory)
	s.mux.HandleFunc("POST /contests/{contest_id}/jury/assign", s.handleAssignJury)
	s.mux.HandleFunc("GET /contests/{contest_id}/jury/assignments", s.handleJuryAssignments)
	s.mux.HandleFunc("POST /contests/{contest_id}/scores/calculate", s.handleCalculateScores)
	s.mux.HandleFunc("GET /contests/{contest_id}/results", s.handleContestResults)
}

func (s *Server) handleGetContest(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.GetContestHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req progressionhttp.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.TransitionHandler(r.Context(), contestID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStepHistory(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.StepHistoryHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteRules(w http.ResponseWriter, r *http.Request) {
	req := progressionhttp.ExecuteRulesRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.ExecuteRulesHandler(r.Context(), contestID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuleHistory(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.RuleHistoryHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignJury(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.AssignJuryHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJuryAssignments(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.JuryAssignmentsHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalculateScores(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.CalculateScoresHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContestResults(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("contest_id")
	resp, err := s.progression.Handler.ContestResultsHandler(r.Context(), contestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrContestNotFound):
		writeError(w, http.StatusNotFound, "contest_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrScoreNotFound):
		writeError(w, http.StatusNotFound, "score_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, domainerrors.ErrNoJuryOrCandidates):
		writeError(w, http.StatusUnprocessableEntity, "no_jury_or_candidates", err.Error())
	case errors.Is(err, domainerrors.ErrNoCandidates):
		writeError(w, http.StatusUnprocessableEntity, "no_candidates", err.Error())
	case errors.Is(err, domainerrors.ErrNoAvailableJury):
		writeError(w, http.StatusConflict, "no_available_jury", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domainerrors.ErrRuleConfig):
		writeError(w, http.StatusBadRequest, "invalid_rule_config", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, progressionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
