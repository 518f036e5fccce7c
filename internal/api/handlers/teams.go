package handlers

import (
	"net/http"

	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/pkg/logger"
)

// TeamHandler serves team generation
type TeamHandler struct {
	svc    *roster.Service
	logger *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(svc *roster.Service, log *logger.Logger) *TeamHandler {
	return &TeamHandler{svc: svc, logger: log}
}

// Generate splits the ready players into teams.
// An omitted strategy means balanced.
// POST /api/teams
func (h *TeamHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req contracts.TeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = contracts.StrategyBalanced
	}

	teams, err := h.svc.GenerateTeams(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}
