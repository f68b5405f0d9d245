package models

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON body of every API error response. Message is safe
// to show to end users; TraceID correlates the response with server logs.
type ErrorBody struct {
	Message string `json:"message"`
	TraceID string `json:"traceId,omitempty"`
}

// NewError creates an error body.
func NewError(message, traceID string) *ErrorBody {
	return &ErrorBody{Message: message, TraceID: traceID}
}

// Write writes the body as JSON with the given status.
func (e *ErrorBody) Write(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	if e.TraceID != "" {
		w.Header().Set("X-Request-Id", e.TraceID)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
