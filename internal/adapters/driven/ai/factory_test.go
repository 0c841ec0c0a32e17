package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantNil   bool
		wantModel string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:      "hashing provider creates service",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderHashing},
			wantModel: hashing.DefaultModel,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantModel: "nomic-embed-text",
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantModel: "text-embedding-3-small",
		},
		{
			name:     "openai without key is not configured",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:     "unknown provider is not configured",
			settings: &domain.EmbeddingSettings{Provider: "anthropic", APIKey: "k"},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateEmbeddingService_Dimensions(t *testing.T) {
	t.Run("explicit dimensions win", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider:   domain.AIProviderHashing,
			Dimensions: 64,
		})
		require.NoError(t, err)
		assert.Equal(t, 64, svc.Dimensions())
	})

	t.Run("known model dimensions", func(t *testing.T) {
		svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    "mxbai-embed-large",
		})
		require.NoError(t, err)
		assert.Equal(t, 1024, svc.Dimensions())
	})
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:     "hashing cannot generate",
			settings: &domain.LLMSettings{Provider: domain.AIProviderHashing},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
			},
			wantModel: "gpt-3.5-turbo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  baseURL,
	})

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "advisor settings")
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI})

		assert.Nil(t, svc)
		assert.NoError(t, err)
	})

	t.Run("reachable ollama", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
		}))
		defer server.Close()

		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})

		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		_, err := CreateAndValidateLLMService(&domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  baseURL,
		})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestEncoder_Singleton(t *testing.T) {
	t.Cleanup(ResetEncoder)
	ResetEncoder()

	settings := &domain.EmbeddingSettings{Provider: domain.AIProviderHashing}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enc, err := Encoder(settings)
			if err == nil {
				results[i] = enc
			}
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}

	// Later calls ignore the settings once the encoder exists.
	enc, err := Encoder(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})
	require.NoError(t, err)
	assert.Same(t, results[0], enc)
}

func TestEncoder_ResetCreatesNewInstance(t *testing.T) {
	t.Cleanup(ResetEncoder)
	ResetEncoder()

	settings := &domain.EmbeddingSettings{Provider: domain.AIProviderHashing}
	first, err := Encoder(settings)
	require.NoError(t, err)

	ResetEncoder()
	second, err := Encoder(settings)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestEncoder_FailureIsRetried(t *testing.T) {
	t.Cleanup(ResetEncoder)
	ResetEncoder()

	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "loading", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	}))
	defer server.Close()

	settings := &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}

	_, err := Encoder(settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEncoder)

	healthy.Store(true)
	enc, err := Encoder(settings)
	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestEncoder_NotConfigured(t *testing.T) {
	t.Cleanup(ResetEncoder)
	ResetEncoder()

	_, err := Encoder(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

	assert.ErrorIs(t, err, domain.ErrEncoder)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
