package handler

import (
	"encoding/json"
	"net/http"

	"ine-ocr-server/internal/domain"
	apperrors "ine-ocr-server/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok && user != nil
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error   string              `json:"error"`
	Type    apperrors.ErrorType `json:"type"`
	Details string              `json:"details,omitempty"`
	Retry   bool                `json:"retry,omitempty"`
}

// writeAppError maps err onto its HTTP status. Internal causes are logged, never echoed.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	appErr := apperrors.FromDomain(err)
	if appErr.StatusCode >= http.StatusInternalServerError && logger != nil {
		logger.Error("Request failed", err, "status", appErr.StatusCode)
	}
	writeJSON(w, appErr.StatusCode, errorResponse{
		Error:   appErr.Message,
		Type:    appErr.Type,
		Details: appErr.Details,
		Retry:   appErr.Retryable,
	})
}
