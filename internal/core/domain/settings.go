package domain

const unknownDescription = "Unknown"

// AIProvider identifies a service provider for embeddings or advice generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHashing is the built-in deterministic encoder. Embedding only.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Hashing (built-in, offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// LogSink selects where query/answer pairs are appended.
type LogSink string

// Available log sinks.
const (
	LogSinkCSV    LogSink = "csv"
	LogSinkSQLite LogSink = "sqlite"
	LogSinkNone   LogSink = "none"
)

// IsValid returns true if the sink is recognised.
func (s LogSink) IsValid() bool {
	switch s {
	case LogSinkCSV, LogSinkSQLite, LogSinkNone:
		return true
	default:
		return false
	}
}

// CorpusSettings locates the base corpus.
type CorpusSettings struct {
	// Dir is the directory scanned once per process.
	Dir string
}

// SearchSettings holds retrieval behaviour configuration.
type SearchSettings struct {
	// TopK is the default number of results.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's vector size. Zero uses the model default.
	Dimensions int

	// BatchConcurrency bounds parallel requests for providers without a batch API.
	BatchConcurrency int

	// RatePerSecond caps outbound requests. Zero disables limiting.
	RatePerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds advice generator configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Temperature controls randomness.
	Temperature float64

	// MaxTokens bounds the answer length.
	MaxTokens int

	// RatePerSecond caps outbound requests. Zero disables limiting.
	RatePerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if l.Provider != AIProviderOllama && l.Provider != AIProviderOpenAI {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// LogSettings configures the query log.
type LogSettings struct {
	Sink LogSink

	// Path is the sink's file. Empty selects DefaultPath.
	Path string
}

// DefaultPath returns the file used by sink when no path is configured.
func (s LogSink) DefaultPath() string {
	switch s {
	case LogSinkCSV:
		return "logs/chat_log.csv"
	case LogSinkSQLite:
		return "logs/query_log.db"
	default:
		return ""
	}
}

// ResolvedPath returns Path, or the sink default when Path is empty.
func (l LogSettings) ResolvedPath() string {
	if l.Path != "" {
		return l.Path
	}
	return l.Sink.DefaultPath()
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr        string
	BodyLimitMB int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Search    SearchSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Log       LogSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The built-in encoder works offline; the LLM is left unconfigured until
// an API key or local model is supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{Dir: "./data"},
		Search: SearchSettings{TopK: DefaultTopK},
		Embedding: EmbeddingSettings{
			Provider:         AIProviderHashing,
			BatchConcurrency: 4,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Log: LogSettings{
			Sink: LogSinkCSV,
		},
		Server: ServerSettings{
			Addr:        ":8080",
			BodyLimitMB: 32,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderHashing, AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns providers that support advice generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderOllama}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "hashing-ngram",
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-3.5-turbo",
	}
}

// EmbeddingDimensions returns known vector sizes by model name.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hashing-ngram":          512,
		"all-minilm":             384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
