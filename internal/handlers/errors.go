package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/nearby"
	"github.com/nearby-rouen/nearby/internal/report"
)

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// writeJSON encodes body with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// badRequest rejects a request whose parameters could not be parsed
func badRequest(w http.ResponseWriter, message string, details map[string]interface{}) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// writeSearchError maps a search error to its HTTP status. Server-side
// failures are logged and reported to Sentry. search is one of the
// metrics.Kind constants.
func writeSearchError(w http.ResponseWriter, r *http.Request, search, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, nearby.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, nearby.ErrCanceled):
		status = http.StatusGatewayTimeout
	case errors.Is(err, nearby.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	requestID := RequestIDFromContext(r.Context())
	details := map[string]interface{}{
		"kind": nearby.Reason(err),
	}
	if requestID != "" {
		details["requestId"] = requestID
	}

	switch status {
	case http.StatusBadRequest:
		details["reason"] = err.Error()
	case http.StatusGatewayTimeout:
		log.Info().
			Err(err).
			Str("request_id", requestID).
			Str("path", r.URL.Path).
			Msg("search canceled")
	default:
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("search", search).
			Str("path", r.URL.Path).
			Msg(message)

		report.ReportSearchFailure(err, report.SearchFailure{
			Search:    search,
			Route:     routePattern(r),
			RequestID: requestID,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
		})
	}

	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// routePattern returns the chi route pattern, or "unmatched"
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
