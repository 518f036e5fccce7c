package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/internal/teamgen"
	"github.com/wonny/squadpick/pkg/logger"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// MessageResponse is the body of every non-validation error
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse lists rejected fields as [{field: message}, ...]
type ValidationResponse struct {
	Message string              `json:"message"`
	Errors  []map[string]string `json:"errors"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage writes {"message": message}
func RespondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, MessageResponse{Message: message})
}

func respondValidation(w http.ResponseWriter, errs roster.ValidationErrors) {
	body := ValidationResponse{Message: "Validation Error", Errors: make([]map[string]string, 0, len(errs))}
	for _, e := range errs {
		body.Errors = append(body.Errors, map[string]string{e.Field: e.Message})
	}
	respondJSON(w, http.StatusBadRequest, body)
}

// respondError maps service errors onto status codes and messages
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var (
		verrs        roster.ValidationErrors
		invalid      *teamgen.InvalidRequestError
		insufficient *teamgen.InsufficientPlayersError
	)

	switch {
	case errors.As(err, &verrs):
		respondValidation(w, verrs)
	case errors.Is(err, contracts.ErrDuplicateUsername):
		RespondMessage(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, roster.ErrInvalidCredentials):
		RespondMessage(w, http.StatusBadRequest, "Invalid username or password")
	case errors.Is(err, roster.ErrSelfRating):
		RespondMessage(w, http.StatusBadRequest, "You cannot rate yourself")
	case errors.Is(err, contracts.ErrNotFound):
		RespondMessage(w, http.StatusNotFound, "User not found")
	case errors.As(err, &invalid), errors.As(err, &insufficient):
		RespondMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.FromContext(r.Context(), log).WithError(err).Error("Request failed")
		RespondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into dst, answering 400 on malformed input
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
