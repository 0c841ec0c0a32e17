// Package http exposes search and advice over a JSON HTTP API.
package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

const (
	// HeaderRequestID carries the request correlation ID.
	HeaderRequestID = "X-Request-ID"

	shutdownTimeout = 5 * time.Second
	localsRequestID = "request_id"
)

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// BodyLimitMB caps request bodies, uploads included.
	BodyLimitMB int

	// CorpusDir is the base corpus directory reported by /api/v1/corpus.
	CorpusDir string

	// DefaultTopK applies when a request omits top_k.
	DefaultTopK int

	// Version is reported by /version.
	Version string
}

// Services are the core services the server drives.
type Services struct {
	Corpus   driving.CorpusService
	Search   driving.SearchService
	Advice   driving.AdviceService
	QueryLog driven.QueryLogReader
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	cfg      Config
	services Services
	metrics  *Metrics
}

// NewServer builds the fiber app and registers every route.
func NewServer(cfg Config, services Services) (*Server, error) {
	if services.Search == nil {
		return nil, errors.New("search service not configured")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.BodyLimitMB <= 0 {
		cfg.BodyLimitMB = 32
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = domain.DefaultTopK
	}

	s := &Server{
		cfg:      cfg,
		services: services,
		metrics:  NewMetrics(),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestIDMiddleware)
	s.app.Use(s.metrics.Middleware())

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)
	s.app.Get("/version", s.version)
	s.app.Get("/metrics", s.metrics.Handler())

	api := s.app.Group("/api/v1")
	api.Get("/corpus", s.corpus)
	api.Post("/search", s.search)
	api.Post("/ask", s.ask)
	api.Get("/queries", s.queries)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", s.cfg.Addr)
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
			return err
		}
		return nil
	}
}

func requestIDMiddleware(c *fiber.Ctx) error {
	id := c.Get(HeaderRequestID)
	if id == "" {
		id = uuid.New().String()
	}
	c.Locals(localsRequestID, id)
	c.Set(HeaderRequestID, id)
	return c.Next()
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsRequestID).(string)
	return id
}
