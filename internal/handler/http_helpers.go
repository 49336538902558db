package handler

import (
	"encoding/json"
	"net/http"

	"shelfscope/internal/domain"
	apperrors "shelfscope/pkg/errors"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	tokenContextKey     contextKey = "token"
	requestIDContextKey contextKey = "request_id"
)

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// GetRequestID returns the request ID assigned by the logging middleware
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service error onto its HTTP status. Server-side
// failures are logged and answered with the fallback message.
func writeServiceError(w http.ResponseWriter, logger domain.Logger, err error, fallback string, fields ...interface{}) {
	appErr := apperrors.FromError(err, fallback)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error(fallback, err, fields...)
	} else {
		logger.Debug("Request rejected", append([]interface{}{"reason", err.Error()}, fields...)...)
	}

	message := appErr.Message
	if appErr.Type == apperrors.ErrorTypeInternal || appErr.Type == apperrors.ErrorTypeUpstream {
		message = fallback
	}
	writeError(w, appErr.StatusCode, message)
}

// requireUser pulls the authenticated user and token set by AuthMiddleware
func requireUser(w http.ResponseWriter, r *http.Request) (*domain.SupabaseUser, string, bool) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return nil, "", false
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return nil, "", false
	}
	return user, token, true
}
