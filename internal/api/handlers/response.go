package handlers

import (
	"encoding/json"
	"net/http"
)

// APIError represents an error response
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RenderJSON renders a JSON response
func RenderJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// RenderError renders an error response
func RenderError(w http.ResponseWriter, code int, message string) {
	RenderJSON(w, code, APIError{
		Code:    code,
		Message: message,
	})
}

// Health handles GET /api/v1/health
func Health(w http.ResponseWriter, _ *http.Request) {
	RenderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
