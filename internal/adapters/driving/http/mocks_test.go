package http

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.RankedResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockAdviceService is a mock implementation of driving.AdviceService.
type mockAdviceService struct {
	advice       *domain.Advice
	err          error
	lastQuestion string
	lastOpts     domain.SearchOptions
}

func (m *mockAdviceService) Ask(
	_ context.Context,
	question string,
	opts domain.SearchOptions,
) (*domain.Advice, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.advice, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	report  *domain.LoadReport
	loadErr error
	loaded  []string
}

func (m *mockCorpusService) LoadBase(_ context.Context, dir string) (domain.Corpus, error) {
	m.loaded = append(m.loaded, dir)
	return nil, m.loadErr
}

func (m *mockCorpusService) Report(_ string) *domain.LoadReport {
	return m.report
}

func (m *mockCorpusService) ParseUploads(
	_ context.Context, _ []domain.Upload,
) (domain.Corpus, *domain.LoadReport) {
	return nil, domain.NewLoadReport("")
}

func (m *mockCorpusService) Reset() {}

// mockQueryLog is a mock implementation of driven.QueryLogReader.
type mockQueryLog struct {
	entries   []domain.QueryLogEntry
	err       error
	lastLimit int
}

func (m *mockQueryLog) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}
