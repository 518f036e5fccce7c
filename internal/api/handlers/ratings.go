package handlers

import (
	"net/http"

	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/pkg/logger"
)

// RatingHandler serves peer ratings
type RatingHandler struct {
	svc    *roster.Service
	logger *logger.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(svc *roster.Service, log *logger.Logger) *RatingHandler {
	return &RatingHandler{svc: svc, logger: log}
}

// RateRequest is the body of a rating call
type RateRequest struct {
	Score *int `json:"score"`
}

// Rate stores the caller's score for a player. Re-rating overwrites the score.
// POST /api/rate/{id}
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())

	ratedID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rating, created, err := h.svc.Rate(r.Context(), p.ID, ratedID, req.Score)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	msg := "Rating updated"
	if created {
		msg = "Rating created"
	}
	logger.FromContext(r.Context(), h.logger).WithFields(map[string]interface{}{
		"rater_id": p.ID,
		"rated_id": ratedID,
		"score":    rating.Score,
	}).Info(msg)

	// 새 평가든 덮어쓰기든 201
	respondJSON(w, http.StatusCreated, rating)
}
