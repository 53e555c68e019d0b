// File: internal/services/ai/errors.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type ErrorType string

const (
	ErrTypeConfig    ErrorType = "CONFIG"
	ErrTypeNetwork   ErrorType = "NETWORK"
	ErrTypeAuth      ErrorType = "AUTH"
	ErrTypeRateLimit ErrorType = "RATE_LIMIT"
	ErrTypeProvider  ErrorType = "PROVIDER"
	ErrTypeTimeout   ErrorType = "TIMEOUT"
)

// AIError is the typed failure surface of the gateway. Transport, auth and
// rate-limit problems all land here instead of leaking SDK errors upward.
type AIError struct {
	Type      ErrorType
	Code      int
	Operation string
	Message   string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

// wrapProviderError classifies an SDK error into the gateway taxonomy.
func wrapProviderError(operation string, err error) *AIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &AIError{Type: ErrTypeTimeout, Operation: operation, Message: "request timed out", Cause: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AIError{Type: ErrTypeAuth, Code: apiErr.HTTPStatusCode, Operation: operation, Message: "authentication rejected by provider", Cause: err}
		case http.StatusTooManyRequests:
			return &AIError{Type: ErrTypeRateLimit, Code: apiErr.HTTPStatusCode, Operation: operation, Message: "provider rate limit exceeded", Cause: err}
		default:
			return &AIError{Type: ErrTypeProvider, Code: apiErr.HTTPStatusCode, Operation: operation, Message: "provider request failed", Cause: err}
		}
	}

	return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: "gateway request failed", Cause: err}
}

// retryable reports whether the failure is worth another attempt.
func retryable(err error) bool {
	var aiErr *AIError
	if !errors.As(err, &aiErr) {
		return false
	}
	switch aiErr.Type {
	case ErrTypeNetwork, ErrTypeRateLimit:
		return true
	case ErrTypeProvider:
		return aiErr.Code >= http.StatusInternalServerError
	}
	return false
}
