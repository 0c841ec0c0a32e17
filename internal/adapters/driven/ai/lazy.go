package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

var (
	_ driven.EmbeddingService = (*LazyEncoder)(nil)
	_ driven.LLMService       = (*LazyLLM)(nil)
)

// LazyEncoder defers Encoder until the first call, so that commands which
// never rank do not contact remote providers.
type LazyEncoder struct {
	settings domain.EmbeddingSettings
}

// NewLazyEncoder returns an encoder proxy for settings.
func NewLazyEncoder(settings domain.EmbeddingSettings) *LazyEncoder {
	return &LazyEncoder{settings: settings}
}

// Embed encodes one text with the process-wide encoder.
func (e *LazyEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	enc, err := Encoder(&e.settings)
	if err != nil {
		return nil, err
	}
	return enc.Embed(ctx, text)
}

// EmbedBatch encodes texts with the process-wide encoder.
func (e *LazyEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	enc, err := Encoder(&e.settings)
	if err != nil {
		return nil, err
	}
	return enc.EmbedBatch(ctx, texts)
}

// Dimensions returns the encoder's vector size, or 0 if it cannot be created.
func (e *LazyEncoder) Dimensions() int {
	enc, err := Encoder(&e.settings)
	if err != nil {
		return 0
	}
	return enc.Dimensions()
}

// ModelName returns the configured model without initialising the encoder.
func (e *LazyEncoder) ModelName() string {
	if e.settings.Model != "" {
		return e.settings.Model
	}
	return domain.DefaultEmbeddingModels()[e.settings.Provider]
}

// Ping initialises the encoder.
func (e *LazyEncoder) Ping(_ context.Context) error {
	_, err := Encoder(&e.settings)
	return err
}

// Close releases the process-wide encoder.
func (e *LazyEncoder) Close() error {
	ResetEncoder()
	return nil
}

// LazyLLM creates and validates the LLM service on first use. A failed
// attempt is retried on the next call.
type LazyLLM struct {
	settings domain.LLMSettings

	mu  sync.Mutex
	svc driven.LLMService
}

// NewLazyLLM returns an LLM proxy for settings.
func NewLazyLLM(settings domain.LLMSettings) *LazyLLM {
	return &LazyLLM{settings: settings}
}

func (l *LazyLLM) get() (driven.LLMService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc != nil {
		return l.svc, nil
	}
	if !l.settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %q is not configured. %s",
			domain.ErrLLMUnavailable, l.settings.Provider, settingsHint)
	}
	svc, err := CreateLLMService(&l.settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	l.svc = svc
	return svc, nil
}

// Generate produces text completion from a prompt.
func (l *LazyLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	svc, err := l.get()
	if err != nil {
		return "", err
	}
	return svc.Generate(ctx, prompt, opts)
}

// Chat conducts a multi-turn conversation.
func (l *LazyLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	svc, err := l.get()
	if err != nil {
		return "", err
	}
	return svc.Chat(ctx, messages, opts)
}

// ModelName returns the configured model.
func (l *LazyLLM) ModelName() string {
	if l.settings.Model != "" {
		return l.settings.Model
	}
	return domain.DefaultLLMModels()[l.settings.Provider]
}

// Ping validates the service is reachable.
func (l *LazyLLM) Ping(ctx context.Context) error {
	svc, err := l.get()
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the underlying service, if created.
func (l *LazyLLM) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc == nil {
		return nil
	}
	err := l.svc.Close()
	l.svc = nil
	return err
}
