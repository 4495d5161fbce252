package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError    = "Storage is temporarily unavailable. Please try again later."

	ErrMsgQuestNotFoundError    = "Quest not found"
	ErrMsgThreadRegisteredError = "That thread is already registered as a quest"
	ErrMsgAlreadyMemberError    = "You are already on this quest"
	ErrMsgNotMemberError        = "You are not on this quest"
	ErrMsgDMCannotJoinError     = "The DM cannot join their own quest"
	ErrMsgQuestClosedError      = "This quest is no longer open"
	ErrMsgForbiddenError        = "Only the quest DM or an admin can do that"
	ErrMsgGuildNotConfigError   = "This server has not been set up yet"
	ErrMsgRateLimitedError      = "Too many applications. Please try again later."
)

// mapServiceError maps domain errors to HTTP status codes and user-facing
// messages. Wrapped errors are matched on their sentinel.
func mapServiceError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrQuestNotFound):
		return http.StatusNotFound, ErrMsgQuestNotFoundError
	case errors.Is(err, domain.ErrThreadRegistered):
		return http.StatusConflict, ErrMsgThreadRegisteredError
	case errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, ErrMsgAlreadyMemberError
	case errors.Is(err, domain.ErrNotMember):
		return http.StatusConflict, ErrMsgNotMemberError
	case errors.Is(err, domain.ErrDMCannotJoin):
		return http.StatusConflict, ErrMsgDMCannotJoinError
	case errors.Is(err, domain.ErrQuestClosed):
		return http.StatusConflict, ErrMsgQuestClosedError
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrGuildNotConfigured):
		return http.StatusNotFound, ErrMsgGuildNotConfigError
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, ErrMsgRateLimitedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
