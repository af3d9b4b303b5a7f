package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"docsearch/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v with the given status code.
func writeJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps service errors to HTTP status codes.
func handleServiceError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, defaultMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrNotFound):
		logger.WarnContext(ctx, "not found", "error", err)
		writeError(w, http.StatusNotFound, "Site not found")
	case errors.Is(err, service.ErrIndexUnavailable):
		logger.WarnContext(ctx, "index unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Index not ready")
	case errors.Is(err, service.ErrRebuildInProgress):
		logger.InfoContext(ctx, "rebuild already running", "error", err)
		writeError(w, http.StatusConflict, "Rebuild already in progress")
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
