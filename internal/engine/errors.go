package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a request missing a required field.
var ErrInvalidInput = errors.New("invalid input")

// ProviderError is a failure of an external search, video or LLM provider:
// network errors, rate limits, blocked requests, malformed responses.
type ProviderError struct {
	Provider string // "web", "video", "llm"
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a ProviderError. Returns nil for a nil err.
func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// ParseError reports LLM output that is not the JSON it was asked for.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse llm response: %v (first 200 bytes: %s)", e.Err, Truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
