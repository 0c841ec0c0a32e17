package driven

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// Normaliser parses one document format into records.
type Normaliser interface {
	// Format returns the format this normaliser handles.
	Format() domain.Format

	// Normalise parses the file content. The name is the original filename;
	// some formats use it to synthesise titles.
	// Failures are returned as *domain.ParseError.
	Normalise(ctx context.Context, name string, content []byte) ([]domain.Record, error)
}
