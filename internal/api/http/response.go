package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// writeDomainError maps domain sentinels onto HTTP statuses. Unknown
// errors become a 500 with a generic message so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRentalNotFound),
		errors.Is(err, domain.ErrDepositNotFound),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		writeError(w, http.StatusConflict, "ALREADY_CONFIRMED", err.Error())
	case errors.Is(err, domain.ErrDisputeAlreadyOpen):
		writeError(w, http.StatusConflict, "DISPUTE_ALREADY_OPEN", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrAmountOutOfRange):
		writeError(w, http.StatusBadRequest, "AMOUNT_OUT_OF_RANGE", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	default:
		logger.Error("Unhandled error in HTTP handler", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return false
	}
	return true
}
