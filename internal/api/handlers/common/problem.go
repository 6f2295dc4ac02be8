// Package common holds the RFC 7807 problem writer shared by every HTTP
// surface.
package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"Loom/internal/observability"
)

// Problem is the RFC 7807 error body. TraceID lets an operator correlate the
// response to the distributed trace.
type Problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
	TraceID string `json:"traceId"`
}

// WriteProblem writes an RFC 7807 response and logs it: 4xx at warn, 5xx at
// error.
func WriteProblem(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, detail string) {
	problem := Problem{
		Type:    "about:blank",
		Title:   http.StatusText(status),
		Status:  status,
		Detail:  detail,
		TraceID: observability.TraceID(r.Context()),
	}

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.String("detail", detail),
		zap.String("traceId", problem.TraceID),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Warn("request rejected", fields...)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		logger.Error("failed to encode problem response", zap.Error(err))
	}
}

// WriteJSON writes a success body with camelCase fields.
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
