package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/pkg/logger"
)

// PlayerHandler serves the roster and profile endpoints
// ⭐ SSOT: 선수 API 핸들러는 이 구조체에서만
type PlayerHandler struct {
	svc    *roster.Service
	logger *logger.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(svc *roster.Service, log *logger.Logger) *PlayerHandler {
	return &PlayerHandler{svc: svc, logger: log}
}

// List returns every player with their average rating
// GET /api/
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.svc.Players(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// Me returns the caller's profile
// GET /api/me
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())

	player, err := h.svc.Profile(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// UpdateMe changes the caller's profile
// PUT /api/me
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())

	var in roster.UpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	player, err := h.svc.UpdateProfile(r.Context(), p.ID, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// DeleteMe removes the caller's account and ratings
// DELETE /api/me
func (h *PlayerHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	h.delete(w, r, p.ID)
}

// Update changes any player's profile (admin)
// PUT /api/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in roster.UpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	player, err := h.svc.AdminUpdate(r.Context(), id, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// Delete removes any player's account and ratings (admin)
// DELETE /api/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.delete(w, r, id)
}

func (h *PlayerHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	RespondMessage(w, http.StatusOK, "User deleted successfully")
}

// pathID parses the {id} route variable
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		RespondMessage(w, http.StatusBadRequest, "Invalid player id")
		return 0, false
	}
	return id, true
}
