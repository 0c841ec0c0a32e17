package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCorpusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil corpus service returns empty report", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, CorpusDir: "./data"})
		require.NoError(t, err)

		result, err := server.handleCorpusResource(ctx, makeReadResourceRequest("failcase://corpus"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"total": 0`)
	})

	t.Run("loads and returns report", func(t *testing.T) {
		report := domain.NewLoadReport("./data")
		report.RecordsPerFile["cases.csv"] = 2
		report.Total = 2
		corpus := &mockCorpusService{report: report}

		server, err := NewServer(&Ports{Search: &mockSearchService{}, Corpus: corpus, CorpusDir: "./data"})
		require.NoError(t, err)

		result, err := server.handleCorpusResource(ctx, makeReadResourceRequest("failcase://corpus"))

		require.NoError(t, err)
		assert.Equal(t, []string{"./data"}, corpus.loaded)
		assert.Contains(t, result.Contents[0].Text, "cases.csv")
		assert.Contains(t, result.Contents[0].Text, `"total": 2`)
	})

	t.Run("load failure", func(t *testing.T) {
		corpus := &mockCorpusService{loadErr: domain.ErrCorpusDirNotFound}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Corpus: corpus, CorpusDir: "missing"})
		require.NoError(t, err)

		_, err = server.handleCorpusResource(ctx, makeReadResourceRequest("failcase://corpus"))

		assert.ErrorIs(t, err, domain.ErrCorpusDirNotFound)
	})
}

func TestServer_handleQueriesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil query log returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		result, err := server.handleQueriesResource(ctx, makeReadResourceRequest("failcase://queries"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns recent entries", func(t *testing.T) {
		log := &mockQueryLog{entries: []domain.QueryLogEntry{
			{ID: "1", Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Query: "ネジ", Answer: "締める"},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, QueryLog: log})
		require.NoError(t, err)

		result, err := server.handleQueriesResource(ctx, makeReadResourceRequest("failcase://queries"))

		require.NoError(t, err)
		assert.Equal(t, recentQueryLimit, log.lastLimit)
		assert.Contains(t, result.Contents[0].Text, "ネジ")
		assert.Contains(t, result.Contents[0].Text, "2024-05-01T00:00:00Z")
	})

	t.Run("read failure", func(t *testing.T) {
		log := &mockQueryLog{err: errors.New("disk")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, QueryLog: log})
		require.NoError(t, err)

		_, err = server.handleQueriesResource(ctx, makeReadResourceRequest("failcase://queries"))

		assert.ErrorContains(t, err, "reading query log")
	})
}
