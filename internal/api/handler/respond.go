// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"splitledger/internal/api/types"
	"splitledger/internal/util"
)

// DefaultTimeout bounds request handling time at the router level.
const DefaultTimeout = 60 * time.Second

// respondWithJSON marshals a payload and writes it with the given status.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors onto HTTP status codes and writes
// the failure envelope.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrSamePayerPayee),
		util.IsError(err, util.ErrWeakPassword):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrUnauthenticated),
		util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = err.Error()
	case util.IsError(err, util.ErrForbidden),
		util.IsError(err, util.ErrNotGroupMember),
		util.IsError(err, util.ErrNotGroupAdmin):
		statusCode = http.StatusForbidden
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrGroupNotFound),
		util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrExpenseNotFound),
		util.IsError(err, util.ErrPaymentNotFound),
		util.IsError(err, util.ErrBalanceNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrDuplicateEmail):
		statusCode = http.StatusConflict
		message = err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, types.Fail(message))
}

// parseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
