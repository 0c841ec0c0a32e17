package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// Ensure AdviceService implements the interface.
var _ driving.AdviceService = (*AdviceService)(nil)

// AdviceService answers questions from the most similar past failure cases.
type AdviceService struct {
	search    driving.SearchService
	generator driven.AdviceGenerator
	queryLog  driven.QueryLog
	now       func() time.Time
}

// NewAdviceService creates an advice service.
// The queryLog parameter is optional (can be nil).
func NewAdviceService(
	search driving.SearchService,
	generator driven.AdviceGenerator,
	queryLog driven.QueryLog,
) *AdviceService {
	return &AdviceService{
		search:    search,
		generator: generator,
		queryLog:  queryLog,
		now:       time.Now,
	}
}

// Ask retrieves the top cases for question, hands them to the generator
// and records the exchange. Generator errors are returned as-is so that
// callers can inspect a *domain.ServiceError.
func (s *AdviceService) Ask(
	ctx context.Context, question string, opts domain.SearchOptions,
) (*domain.Advice, error) {
	logger.Section("Advice")

	if s.generator == nil {
		return nil, fmt.Errorf("%w: no advice generator configured", domain.ErrLLMUnavailable)
	}

	results, err := s.search.Search(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	caseContext := domain.BuildContext(results)
	logger.Debug("Context: %d cases, %d bytes", len(results), len(caseContext))

	answer, err := s.generator.GenerateAdvice(ctx, question, caseContext)
	if err != nil {
		return nil, err
	}

	advice := &domain.Advice{
		Question:  question,
		Answer:    answer,
		Results:   results,
		Context:   caseContext,
		CreatedAt: s.now(),
	}

	s.record(ctx, advice)
	return advice, nil
}

// record appends the exchange to the query log. Failures are only logged.
func (s *AdviceService) record(ctx context.Context, advice *domain.Advice) {
	if s.queryLog == nil {
		return
	}

	entry := domain.QueryLogEntry{
		ID:        uuid.New().String(),
		Timestamp: advice.CreatedAt,
		Query:     advice.Question,
		Answer:    advice.Answer,
	}
	if err := s.queryLog.Append(ctx, entry); err != nil {
		logger.WithFields(logger.Fields{"id": entry.ID, "error": err}).Warn("query log append failed")
	}
}
