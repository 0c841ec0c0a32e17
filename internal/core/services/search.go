package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks failure cases by semantic similarity to a query.
type SearchService struct {
	corpus   driving.CorpusService
	embedder driven.EmbeddingService
	baseDir  string
}

// NewSearchService creates a search service over the base corpus in baseDir.
// The embedder must be the process-wide encoder so that query and record
// vectors share one space.
func NewSearchService(
	corpus driving.CorpusService,
	embedder driven.EmbeddingService,
	baseDir string,
) *SearchService {
	return &SearchService{
		corpus:   corpus,
		embedder: embedder,
		baseDir:  baseDir,
	}
}

// Search builds the query corpus (uploads ahead of the base corpus) and ranks it.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, TopK: %d, Uploads: %d", query, opts.TopK, len(opts.Uploads))

	corpus, err := s.Corpus(ctx, opts.Uploads)
	if err != nil {
		return nil, err
	}

	return s.SearchCorpus(ctx, query, corpus, opts.TopK)
}

// Corpus returns the parsed uploads followed by the memoized base corpus.
func (s *SearchService) Corpus(ctx context.Context, uploads []domain.Upload) (domain.Corpus, error) {
	var uploaded domain.Corpus
	if len(uploads) > 0 {
		var report *domain.LoadReport
		uploaded, report = s.corpus.ParseUploads(ctx, uploads)
		logger.Debug("Uploads: %d records, %d failed, %d skipped",
			report.Total, len(report.Failures), len(report.Skipped))
	}

	base, err := s.corpus.LoadBase(ctx, s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("load base corpus: %w", err)
	}

	return domain.Merge(base, uploaded), nil
}

// SearchCorpus ranks corpus against query and returns at most topK results.
// The query and every record text are encoded in one batch. An empty corpus
// yields no results without touching the encoder; an empty query is still
// encoded.
func (s *SearchService) SearchCorpus(
	ctx context.Context, query string, corpus domain.Corpus, topK int,
) ([]domain.RankedResult, error) {
	if len(corpus) == 0 || topK <= 0 {
		logger.Debug("Nothing to rank (corpus=%d, topK=%d)", len(corpus), topK)
		return []domain.RankedResult{}, nil
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no encoder configured", domain.ErrEncoder)
	}

	texts := make([]string, 0, len(corpus)+1)
	texts = append(texts, query)
	texts = append(texts, corpus.Texts()...)

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoder, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEncoder, len(vectors), len(texts))
	}

	ranked, err := Rank(vectors[0], vectors[1:], topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoder, err)
	}

	results := make([]domain.RankedResult, len(ranked))
	for i, r := range ranked {
		rec := corpus[r.Index]
		results[i] = domain.RankedResult{Score: r.Score, Title: rec.Title, Body: rec.Body}
	}

	logger.Info("Ranked %d records with %s, returning %d", len(corpus), s.embedder.ModelName(), len(results))
	return results, nil
}
