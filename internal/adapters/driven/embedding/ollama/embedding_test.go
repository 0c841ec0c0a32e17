package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a server that embeds a prompt as [len(prompt), 1].
func newTestServer(t *testing.T, inFlight *atomic.Int32, maxInFlight *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embeddings":
			if inFlight != nil {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					prev := maxInFlight.Load()
					if n <= prev || maxInFlight.CompareAndSwap(prev, n) {
						break
					}
				}
			}
			var req embedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if req.Prompt == "fail" {
				http.Error(w, "model exploded", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(len(req.Prompt)), 1}})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultConcurrency, svc.concurrency)
	assert.NoError(t, svc.Close())
}

func TestEmbed(t *testing.T) {
	server := newTestServer(t, nil, nil)
	defer server.Close()
	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	v, err := svc.Embed(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, []float32{3, 1}, v)
}

func TestEmbed_ServerError(t *testing.T) {
	server := newTestServer(t, nil, nil)
	defer server.Close()
	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "fail")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model exploded")
}

func TestEmbed_EmptyEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer server.Close()
	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "x")

	assert.ErrorContains(t, err, "empty embedding")
}

func TestEmbedBatch_PreservesOrderAndBoundsConcurrency(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	server := newTestServer(t, &inFlight, &maxInFlight)
	defer server.Close()
	svc := NewEmbeddingService(Config{BaseURL: server.URL, Concurrency: 2})

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	vectors, err := svc.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vectors[i][0])
	}
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestEmbedBatch_Error(t *testing.T) {
	server := newTestServer(t, nil, nil)
	defer server.Close()
	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.EmbedBatch(context.Background(), []string{"ok", "fail", "ok"})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "embed text 1"), err.Error())
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})

	vectors, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestPing(t *testing.T) {
	server := newTestServer(t, nil, nil)
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
	assert.Error(t, NewEmbeddingService(Config{BaseURL: server.URL + "/nope"}).Ping(context.Background()))
}
