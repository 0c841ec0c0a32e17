package cli

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

type mockSearchService struct {
	results   []domain.RankedResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

type mockAdviceService struct {
	advice       *domain.Advice
	err          error
	lastQuestion string
	lastOpts     domain.SearchOptions
}

func (m *mockAdviceService) Ask(
	_ context.Context, question string, opts domain.SearchOptions,
) (*domain.Advice, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.advice, m.err
}

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

type mockSettingsService struct {
	settings    domain.AppSettings
	setErr      error
	validateErr error
	pingErr     error
	set         map[string]string
	apiKeys     map[domain.AIProvider]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		set:      make(map[string]string),
		apiKeys:  make(map[domain.AIProvider]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	m.apiKeys[provider] = apiKey
	if m.settings.LLM.Provider == provider {
		m.settings.LLM.APIKey = apiKey
	}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

type mockQueryLog struct {
	entries   []domain.QueryLogEntry
	err       error
	lastLimit int
}

func (m *mockQueryLog) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	search   *mockSearchService
	advice   *mockAdviceService
	corpus   *mockCorpusService
	settings *mockSettingsService
	queryLog *mockQueryLog
}

// setupTestServices installs mocks and returns them with a cleanup func
// that restores the previous services and flag state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{results: []domain.RankedResult{
			{Score: 0.91, Title: "溶接部の割れ", Body: "問題点: 予熱不足\n対策: 予熱温度の管理"},
			{Score: 0.42, Title: "塗装剥がれ", Body: "問題点: 脱脂不足"},
		}},
		advice: &mockAdviceService{},
		corpus:   &mockCorpusService{},
		settings: newMockSettingsService(),
		queryLog: &mockQueryLog{},
	}
	ts.advice.advice = &domain.Advice{
		Question: "割れを防ぐには",
		Answer:   "予熱温度を管理してください。",
		Results:  ts.search.results,
	}

	old := Services{
		Corpus:   corpusService,
		Search:   searchService,
		Advice:   adviceService,
		Settings: settingsService,
		QueryLog: queryLogReader,
	}
	SetServices(Services{
		Corpus:   ts.corpus,
		Search:   ts.search,
		Advice:   ts.advice,
		Settings: ts.settings,
		QueryLog: ts.queryLog,
	})

	return ts, func() {
		SetServices(old)
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// resetFlags clears flag values and Changed markers left by earlier runs.
func resetFlags() {
	searchTopK = domain.DefaultTopK
	askTopK = domain.DefaultTopK
	searchCmd.Flags().Lookup("top-k").Changed = false
	askCmd.Flags().Lookup("top-k").Changed = false
	searchFiles = nil
	searchJSON = false
	askFiles = nil
	askOutput = ""
	loadDir = ""
	logLimit = 10
	settingsValidate = true
}
