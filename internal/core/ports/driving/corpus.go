package driving

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// CorpusService manages the base corpus and ad hoc uploads.
type CorpusService interface {
	// LoadBase returns the corpus for dir. The first call for a directory
	// scans and parses it; later calls return the cached corpus.
	LoadBase(ctx context.Context, dir string) (domain.Corpus, error)

	// Report returns the summary of the cached load of dir, or nil.
	Report(dir string) *domain.LoadReport

	// ParseUploads parses in-memory files, skipping unsupported and failed ones.
	ParseUploads(ctx context.Context, uploads []domain.Upload) (domain.Corpus, *domain.LoadReport)

	// Reset drops every cached corpus.
	Reset()
}
