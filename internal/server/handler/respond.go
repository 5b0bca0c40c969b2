// Package handler provides the HTTP handlers for the OpenGuard API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openguard/openguard/internal/core"
)

// envelope is the uniform response wrapper for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "unexpected error during request processing"

	var appErr *core.Error
	if errors.As(err, &appErr) {
		status = statusForKind(appErr.Kind)
		message = appErr.Message
	}

	logger.Error("request failed", "status", status, "error", err)
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func statusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.KindInvalidReference:
		return http.StatusBadRequest
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindAccessDenied:
		return http.StatusForbidden
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindRateLimited:
		return http.StatusTooManyRequests
	case core.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case core.KindMalformedResponse, core.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
