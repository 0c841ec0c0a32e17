package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

type fixture struct {
	server *Server
	search *mockSearchService
	advice *mockAdviceService
	corpus *mockCorpusService
	log    *mockQueryLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		search: &mockSearchService{results: []domain.RankedResult{{Score: 0.9, Title: "溶接割れ", Body: "予熱不足"}}},
		advice: &mockAdviceService{},
		corpus: &mockCorpusService{report: &domain.LoadReport{Dir: "./data", Total: 4}},
		log:    &mockQueryLog{},
	}
	srv, err := NewServer(Config{CorpusDir: "./data", DefaultTopK: 3, Version: "1.2.3"}, Services{
		Corpus:   f.corpus,
		Search:   f.search,
		Advice:   f.advice,
		QueryLog: f.log,
	})
	require.NoError(t, err)
	f.server = srv
	return f
}

func (f *fixture) do(t *testing.T, req *nethttp.Request) (*nethttp.Response, []byte) {
	t.Helper()
	resp, err := f.server.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func jsonRequest(method, path, body string) *nethttp.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestNewServer_RequiresSearch tests construction without a search service
func TestNewServer_RequiresSearch(t *testing.T) {
	_, err := NewServer(Config{}, Services{})
	assert.Error(t, err)
}

// TestHealth tests the health endpoint
func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/health", nil))

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got["status"])
	assert.NotEmpty(t, got["time"])
}

// TestVersion tests the version endpoint
func TestVersion(t *testing.T) {
	f := newFixture(t)
	_, body := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/version", nil))
	assert.JSONEq(t, `{"version":"1.2.3"}`, string(body))
}

// TestRequestID tests that IDs are generated or echoed
func TestRequestID(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	assert.Len(t, resp.Header.Get(HeaderRequestID), 36)

	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc")
	resp, _ = f.do(t, req)
	assert.Equal(t, "abc", resp.Header.Get(HeaderRequestID))
}

// TestSearch_JSON tests a JSON search request
func TestSearch_JSON(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/search", `{"query":"割れ","top_k":5}`))

	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	var got SearchResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "割れ", got.Query)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "溶接割れ", got.Results[0].Title)
	assert.Equal(t, 5, f.search.lastOpts.TopK)
}

// TestSearch_DefaultTopK tests that an omitted top_k uses the configured default
func TestSearch_DefaultTopK(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/search", `{"query":"割れ"}`))

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, f.search.lastOpts.TopK)
}

// TestSearch_InvalidRequests tests request validation
func TestSearch_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":"  "}`},
		{"negative top_k", `{"query":"x","top_k":-1}`},
		{"malformed json", `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, body := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/search", tt.body))

			assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Contains(t, got.Error, "invalid input")
			assert.NotEmpty(t, got.RequestID)
		})
	}
}

// TestSearch_Multipart tests uploads sent with a query
func TestSearch_Multipart(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("query", "割れ"))
	require.NoError(t, w.WriteField("top_k", "2"))
	part, err := w.CreateFormFile("files", "extra.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,body\n焼入れ割れ,冷却速度\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/search", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := f.do(t, req)

	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, 2, f.search.lastOpts.TopK)
	require.Len(t, f.search.lastOpts.Uploads, 1)
	assert.Equal(t, "extra.csv", f.search.lastOpts.Uploads[0].Name)
	assert.Contains(t, string(f.search.lastOpts.Uploads[0].Content), "焼入れ割れ")
}

// TestSearch_ErrorMapping tests domain error to status mapping
func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"encoder", domain.ErrEncoder, nethttp.StatusInternalServerError},
		{"missing corpus", domain.ErrCorpusDirNotFound, nethttp.StatusServiceUnavailable},
		{"invalid", domain.ErrInvalidInput, nethttp.StatusBadRequest},
		{"service", &domain.ServiceError{Provider: "openai", StatusCode: 429, Err: errors.New("slow down")}, nethttp.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.search.err = tt.err
			resp, _ := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/search", `{"query":"x"}`))
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

// TestAsk tests advice generation
func TestAsk(t *testing.T) {
	f := newFixture(t)
	f.advice.advice = &domain.Advice{
		Question: "割れを防ぐには",
		Answer:   "予熱を行ってください",
		Results:  f.search.results,
	}

	resp, body := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/ask", `{"question":"割れを防ぐには"}`))

	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	var got AskResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "予熱を行ってください", got.Answer)
	assert.Len(t, got.Results, 1)
	assert.Contains(t, got.Report, "アドバイス:")
	assert.Equal(t, "割れを防ぐには", f.advice.lastQuestion)
}

// TestAsk_QueryFieldAccepted tests that ask accepts "query" as the question
func TestAsk_QueryFieldAccepted(t *testing.T) {
	f := newFixture(t)
	f.advice.advice = &domain.Advice{Question: "q"}

	resp, _ := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/ask", `{"query":"q"}`))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "q", f.advice.lastQuestion)
}

// TestAsk_ServiceError tests provider errors surface with the provider name
func TestAsk_ServiceError(t *testing.T) {
	f := newFixture(t)
	f.advice.err = &domain.ServiceError{Provider: "openai", StatusCode: 401, Err: errors.New("bad key")}

	resp, body := f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/ask", `{"question":"q"}`))

	assert.Equal(t, nethttp.StatusBadGateway, resp.StatusCode)
	var got ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "openai", got.Provider)
	assert.Contains(t, got.Error, "bad key")
}

// TestAsk_NotConfigured tests ask without an advice service
func TestAsk_NotConfigured(t *testing.T) {
	srv, err := NewServer(Config{}, Services{Search: &mockSearchService{}})
	require.NoError(t, err)

	resp, err := srv.App().Test(jsonRequest(nethttp.MethodPost, "/api/v1/ask", `{"question":"q"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
}

// TestCorpus tests the corpus report endpoint
func TestCorpus(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/corpus", nil))

	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var got domain.LoadReport
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, []string{"./data"}, f.corpus.loaded)
}

// TestCorpus_LoadError tests a missing corpus directory
func TestCorpus_LoadError(t *testing.T) {
	f := newFixture(t)
	f.corpus.loadErr = domain.ErrCorpusDirNotFound

	resp, _ := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/corpus", nil))
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
}

// TestQueries tests listing the query log
func TestQueries(t *testing.T) {
	f := newFixture(t)
	f.log.entries = []domain.QueryLogEntry{{Query: "q", Answer: "a"}}

	resp, body := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/queries?limit=5", nil))

	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, f.log.lastLimit)
	var got []domain.QueryLogEntry
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Answer)

	resp, _ = f.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/queries?limit=0", nil))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

// TestMetrics tests that counters are exported after traffic
func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/search", `{"query":"x"}`))

	resp, body := f.do(t, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `advisor_searches_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "advisor_http_latency_ms")
}

// TestStatusFor tests error classification
func TestStatusFor(t *testing.T) {
	assert.Equal(t, nethttp.StatusServiceUnavailable, statusFor(domain.ErrLLMUnavailable))
	assert.Equal(t, nethttp.StatusServiceUnavailable, statusFor(domain.ErrEmbeddingUnavailable))
	assert.Equal(t, nethttp.StatusInternalServerError, statusFor(errors.New("x")))
	assert.Equal(t, nethttp.StatusTeapot, statusFor(fiber.NewError(fiber.StatusTeapot, "tea")))
}
