// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/failcase-advisor/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/failcase-advisor/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/failcase-advisor/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/failcase-advisor/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

const settingsHint = "Run 'advisor settings show' to check the configuration"

var (
	encoderMu sync.Mutex
	encoder   driven.EmbeddingService
)

// Encoder returns the process-wide embedding encoder, creating and pinging
// it on first use. Every query and record in the process is encoded by the
// same instance. A failed initialisation is not cached.
func Encoder(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	encoderMu.Lock()
	defer encoderMu.Unlock()

	if encoder != nil {
		return encoder, nil
	}

	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEncoder, domain.ErrEmbeddingUnavailable, settingsHint)
	}

	svc, err := CreateAndValidateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoder, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: no encoder for provider %q", domain.ErrEncoder, settings.Provider)
	}

	logger.Info("Encoder ready: %s (%d dimensions)", svc.ModelName(), svc.Dimensions())
	encoder = svc
	return encoder, nil
}

// ResetEncoder closes and forgets the process-wide encoder.
func ResetEncoder() {
	encoderMu.Lock()
	defer encoderMu.Unlock()

	if encoder != nil {
		_ = encoder.Close()
		encoder = nil
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s",
			domain.ErrEmbeddingUnavailable, err, settingsHint)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, settingsHint)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s",
			domain.ErrLLMUnavailable, err, settingsHint)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(hashing.Config{Dimensions: settings.Dimensions}), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			Transport: NewRateLimitedTransport(nil, settings.RatePerSecond),
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			Transport: NewRateLimitedTransport(nil, settings.RatePerSecond),
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Dimensions:  dimensions,
		Concurrency: settings.BatchConcurrency,
		Transport:   NewRateLimitedTransport(nil, settings.RatePerSecond),
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:      settings.APIKey,
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Dimensions:  dimensions,
		Concurrency: settings.BatchConcurrency,
		Transport:   NewRateLimitedTransport(nil, settings.RatePerSecond),
	})
}

// httpTransport returns base, or the default transport when base is nil.
func httpTransport(base http.RoundTripper) http.RoundTripper {
	if base != nil {
		return base
	}
	return http.DefaultTransport
}
