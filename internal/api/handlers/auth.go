package handlers

import (
	"net/http"

	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/pkg/logger"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	svc    *roster.Service
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *roster.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: log}
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string           `json:"token"`
	User  contracts.Player `json:"user"`
}

// Register creates a player account
// POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in roster.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	player, err := h.svc.Register(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, player)
}

// Login exchanges credentials for a bearer token
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in roster.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	token, player, err := h.svc.Login(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: player})
}
