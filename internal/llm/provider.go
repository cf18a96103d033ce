package llm

import (
	"context"
	"errors"
)

// defines the interface for LLM grading providers
type Provider interface {
	// Grade sends a grading prompt and returns the provider's raw text.
	Grade(ctx context.Context, prompt string) (string, error)
	// Repair asks the provider to rewrite its own malformed output. The
	// instruction and the broken text travel as one prompt.
	Repair(ctx context.Context, prompt string, brokenText string) (string, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

// IsTransient reports whether a provider error is retryable. Rate limits,
// outages and timeouts may clear on a second call; everything else will not.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Code {
		case ErrCodeRateLimit, ErrCodeServiceDown, ErrCodeTimeout:
			return true
		}
	}
	return false
}
