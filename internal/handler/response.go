package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/spendsight/backend/internal/apperror"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondAppError writes a JSON error response mapped from a domain error.
func respondAppError(w http.ResponseWriter, err error) {
	appErr := apperror.FromError(err)
	respondJSON(w, appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Field: appErr.Field,
	})
}

// queryUserID parses the user_id query parameter.
func queryUserID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return 0, apperror.ValidationError("user_id", "user_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationError("user_id", "user_id must be a positive integer")
	}
	return id, nil
}

// queryOptionalInt parses an optional integer query parameter, nil when absent.
func queryOptionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.ValidationError(name, name+" must be an integer")
	}
	return &n, nil
}
