package driven

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// QueryLog is an append-only record of answered questions.
// Callers never depend on its success.
type QueryLog interface {
	// Append records one entry.
	Append(ctx context.Context, entry domain.QueryLogEntry) error

	// Close releases resources.
	Close() error
}

// QueryLogReader is implemented by sinks that can list past entries.
type QueryLogReader interface {
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
}
