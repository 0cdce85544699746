package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Unauthorized reports whether the error is an authentication rejection.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func newAPIError(status int, payload []byte) *APIError {
	var body errorBody
	// A non-JSON error body degrades to a status-only error.
	_ = json.Unmarshal(payload, &body)
	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = body.Detail
	}
	return &APIError{Status: status, Message: message}
}

// ErrorMessage resolves err to user-facing text, preferring a
// server-supplied detail message over the generic fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
