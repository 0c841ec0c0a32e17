package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

const defaultQueryLimit = 20

// SearchResponse is returned by POST /api/v1/search.
type SearchResponse struct {
	Query   string                `json:"query"`
	Results []domain.RankedResult `json:"results"`
	Count   int                   `json:"count"`
}

// AskResponse is returned by POST /api/v1/ask.
type AskResponse struct {
	Question string                `json:"question"`
	Answer   string                `json:"answer"`
	Results  []domain.RankedResult `json:"results"`
	Report   string                `json:"report"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": s.cfg.Version})
}

func (s *Server) corpus(c *fiber.Ctx) error {
	if s.services.Corpus == nil {
		return fiber.NewError(fiber.StatusNotFound, "corpus service not configured")
	}
	if _, err := s.services.Corpus.LoadBase(c.UserContext(), s.cfg.CorpusDir); err != nil {
		return err
	}
	return c.JSON(s.services.Corpus.Report(s.cfg.CorpusDir))
}

func (s *Server) search(c *fiber.Ctx) error {
	req, uploads, err := parseQuery(c)
	if err != nil {
		return err
	}
	s.countUploads(len(uploads))

	results, err := s.services.Search.Search(c.UserContext(), req.text(), s.options(req, uploads))
	s.metrics.searches.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"request_id": requestID(c),
		"results":    len(results),
		"uploads":    len(uploads),
	}).Debug("search served")

	return c.JSON(SearchResponse{Query: req.text(), Results: results, Count: len(results)})
}

func (s *Server) ask(c *fiber.Ctx) error {
	if s.services.Advice == nil {
		return domain.ErrLLMUnavailable
	}
	req, uploads, err := parseQuery(c)
	if err != nil {
		return err
	}
	s.countUploads(len(uploads))

	advice, err := s.services.Advice.Ask(c.UserContext(), req.text(), s.options(req, uploads))
	s.metrics.asks.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(AskResponse{
		Question: advice.Question,
		Answer:   advice.Answer,
		Results:  advice.Results,
		Report:   advice.Report(),
	})
}

func (s *Server) queries(c *fiber.Ctx) error {
	if s.services.QueryLog == nil {
		return fiber.NewError(fiber.StatusNotFound, "query log is not readable")
	}
	limit := c.QueryInt("limit", defaultQueryLimit)
	if limit <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
	}
	entries, err := s.services.QueryLog.Recent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (s *Server) options(req QueryRequest, uploads []domain.Upload) domain.SearchOptions {
	topK := req.TopK
	if topK == 0 {
		topK = s.cfg.DefaultTopK
	}
	return domain.SearchOptions{TopK: topK, Uploads: uploads}
}

func (s *Server) countUploads(n int) {
	if n > 0 {
		s.metrics.uploads.WithLabelValues("received").Add(float64(n))
	}
}
