package driven

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a file from its extension.
type NormaliserRegistry interface {
	// Normalise parses the file with the normaliser for its format.
	// Unsupported formats yield no records and no error.
	Normalise(ctx context.Context, name string, content []byte) ([]domain.Record, error)

	// Register adds a normaliser, replacing any existing one for its format.
	Register(normaliser Normaliser)

	// SupportedFormats returns the formats with a registered normaliser.
	SupportedFormats() []domain.Format
}
