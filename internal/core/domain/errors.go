package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension with no parser.
	// Loaders treat it as a silent skip rather than a failure.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrParse indicates a document could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrCorpusDirNotFound indicates the base corpus directory is missing.
	ErrCorpusDirNotFound = errors.New("corpus directory not found")

	// ErrEncoder indicates the embedding encoder failed to load or run.
	// Retrieval cannot proceed without it.
	ErrEncoder = errors.New("encoder failure")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or not reachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the advice generator is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ParseError reports a failure to parse a single file.
type ParseError struct {
	File string
	Err  error
}

// NewParseError wraps err for the named file.
func NewParseError(file string, err error) *ParseError {
	return &ParseError{File: file, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// ServiceError reports a failure of the external advice generator.
// It is surfaced to callers exactly as returned.
type ServiceError struct {
	// Provider names the backend, e.g. "openai".
	Provider string

	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int

	Err error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
