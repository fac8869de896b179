package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGeminiNotConfigured signals that the Gemini API key is absent or still
// the placeholder value. Detected before any external call is attempted and
// mapped to 503 by the API layer.
var ErrGeminiNotConfigured = errors.New("gemini api key not configured")

// ValidationError reports required profile fields that are missing.
// Mapped to 400 by the API layer.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// ExternalServiceError wraps a failed generative-model invocation.
// Mapped to 500 with a sanitized message by the API layer.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MalformedResponseError means the model's raw text contained no extractable
// JSON object, or the extracted span did not parse. Surfaced to clients as
// an external-service failure with a generic retry message.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed model response: " + e.Reason
}
