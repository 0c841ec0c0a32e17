package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// cachedCorpus is one memoized directory load.
type cachedCorpus struct {
	records domain.Corpus
	report  *domain.LoadReport
}

// CorpusService loads the base corpus once per directory and parses uploads.
// Edits to a loaded directory are not observed until Reset or restart.
type CorpusService struct {
	registry driven.NormaliserRegistry

	mu    sync.Mutex
	cache map[string]*cachedCorpus
}

// NewCorpusService creates a corpus service that parses with registry.
func NewCorpusService(registry driven.NormaliserRegistry) *CorpusService {
	return &CorpusService{
		registry: registry,
		cache:    make(map[string]*cachedCorpus),
	}
}

// LoadBase returns the records of every supported file directly inside dir.
// The first successful call for a directory is cached; concurrent first
// callers wait for the one load. Files that fail to parse are logged and
// skipped. A missing directory is an error and is not cached.
func (s *CorpusService) LoadBase(ctx context.Context, dir string) (domain.Corpus, error) {
	key := cacheKey(dir)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[key]; ok {
		logger.Debug("Base corpus cache hit: %s (%d records)", key, len(cached.records))
		return slices.Clone(cached.records), nil
	}

	logger.Section("Base Corpus Load")
	logger.Debug("Directory: %s", key)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCorpusDirNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	report := domain.NewLoadReport(key)
	var records domain.Corpus

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !domain.FormatFromFilename(name).IsSupported() {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			recordFailure(report, name, err)
			continue
		}
		records = append(records, s.parseOne(ctx, report, name, content)...)
	}

	report.Total = len(records)
	s.cache[key] = &cachedCorpus{records: records, report: report}

	logger.Info("Loaded %d records from %d files (%d failed, %d skipped)",
		report.Total, len(report.RecordsPerFile), len(report.Failures), len(report.Skipped))

	return slices.Clone(records), nil
}

// Report returns the load summary for dir, or nil if it has not been loaded.
func (s *CorpusService) Report(dir string) *domain.LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[cacheKey(dir)]; ok {
		return cached.report
	}
	return nil
}

// ParseUploads parses in-memory files in order. Unsupported and failing
// files contribute no records.
func (s *CorpusService) ParseUploads(ctx context.Context, uploads []domain.Upload) (domain.Corpus, *domain.LoadReport) {
	report := domain.NewLoadReport("")
	var records domain.Corpus

	for _, u := range uploads {
		if ctx.Err() != nil {
			recordFailure(report, u.Name, ctx.Err())
			continue
		}
		if !domain.FormatFromFilename(u.Name).IsSupported() {
			report.Skipped = append(report.Skipped, u.Name)
			continue
		}
		records = append(records, s.parseOne(ctx, report, u.Name, u.Content)...)
	}

	report.Total = len(records)
	return records, report
}

// Reset drops every cached corpus.
func (s *CorpusService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedCorpus)
}

// parseOne parses a single file, recording the outcome in report.
func (s *CorpusService) parseOne(
	ctx context.Context, report *domain.LoadReport, name string, content []byte,
) []domain.Record {
	records, err := s.registry.Normalise(ctx, name, content)
	if err != nil {
		recordFailure(report, name, err)
		return nil
	}
	report.RecordsPerFile[name] = len(records)
	logger.Debug("Parsed %s: %d records", name, len(records))
	return records
}

func recordFailure(report *domain.LoadReport, name string, err error) {
	logger.WithFields(logger.Fields{"file": name, "error": err}).Warn("skipping unreadable file")
	report.Failures = append(report.Failures, domain.FileFailure{File: name, Error: err.Error()})
}

func cacheKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
