package errorhandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/comiclib/comiclib-api/internal/pkg/logger"
	"github.com/comiclib/comiclib-api/internal/pkg/response"
)

// HandleError logs the failure with the request id and writes {"error": message}
func HandleError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		Str("error_message", message).
		Int("status_code", status)

	if err != nil {
		event.Err(err)
	}

	event.Msg("Request error")

	response.Error(w, status, message)
}

// HandleUpstreamError logs a record store or object store failure and passes
// the client message through with a 500
func HandleUpstreamError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logger.FromContext(ctx).Error().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		Str("operation", operation).
		Err(err).
		Msg("Upstream error")

	response.UpstreamError(w, err)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	errJSON, _ := json.Marshal(fieldErrors)
	logger.FromContext(ctx).Warn().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		RawJSON("validation_errors", errJSON).
		Msg("Validation error")
}

// LogExternalServiceError logs errors from external service calls
func LogExternalServiceError(ctx context.Context, service string, endpoint string, statusCode int, err error, body string) {
	logger.FromContext(ctx).Error().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		Str("external_service", service).
		Str("endpoint", endpoint).
		Int("status_code", statusCode).
		Err(err).
		Str("response_body", truncateString(body, 1000)).
		Msg("External service error")
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "...<truncated>"
	}
	return s
}
