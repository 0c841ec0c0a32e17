package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

var settingsValidate bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the corpus location, retrieval defaults, AI providers
and the query log sink.

The default hashing encoder works offline but only matches shared
character sequences. Semantic matching needs a sentence-embedding model:
set embedding.provider to ollama or openai.

Settings are stored in ~/.failcase-advisor/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key.

Keys:
  corpus.dir                    base corpus directory
  search.top_k                  default number of cases
  embedding.provider            hashing (lexical, offline), ollama or openai
  embedding.model, embedding.base_url, embedding.dimensions
  embedding.batch_concurrency, embedding.rate_per_second
  llm.provider                  openai or ollama
  llm.model, llm.base_url, llm.temperature, llm.max_tokens
  llm.rate_per_second
  log.sink                      csv, sqlite or none
  log.path
  server.addr, server.body_limit_mb`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Store an API key for a provider",
	Long: `Prompts for a provider and its API key. The key is read without echo
when stdin is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runSettingsAPIKey,
}

func init() {
	settingsAPIKeyCmd.Flags().BoolVar(&settingsValidate, "validate", true, "ping the provider after saving")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Directory: %s\n", settings.Corpus.Dir)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Top K: %d\n", settings.Search.TopK)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(settings.Embedding.Model,
		domain.DefaultEmbeddingModels()[settings.Embedding.Provider]))
	if settings.Embedding.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", orDefault(settings.Embedding.BaseURL, "http://localhost:11434"))
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	printStatus(cmd, settings.Embedding.IsConfigured())
	if settings.Embedding.Provider == domain.AIProviderHashing {
		cmd.Println("  Note: lexical matching only; set embedding.provider to ollama or openai for semantic search")
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(settings.LLM.Model,
		domain.DefaultLLMModels()[settings.LLM.Provider]))
	if settings.LLM.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", orDefault(settings.LLM.BaseURL, "http://localhost:11434"))
	}
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Query Log]")
	cmd.Printf("  Sink: %s\n", settings.Log.Sink)
	if path := settings.Log.ResolvedPath(); path != "" {
		cmd.Printf("  Path: %s\n", path)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'advisor settings set' or 'advisor settings api-key' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if strings.HasSuffix(key, ".api_key") {
		return errors.New("use 'advisor settings api-key' to store API keys")
	}
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	var providers []domain.AIProvider
	for _, p := range domain.AllEmbeddingProviders() {
		if p.RequiresAPIKey() {
			providers = append(providers, p)
		}
	}

	cmd.Println("Select Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	cmd.Print("Enter API key: ")
	apiKey := readPassword(reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}

	if err := settingsService.SetAPIKey(provider, apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("API key stored for %s (%s)\n", provider.Description(), maskAPIKey(apiKey))

	if !settingsValidate {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.LLM.Provider == provider {
		cmd.Print("Validating LLM configuration... ")
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}
	if settings.Embedding.Provider == provider {
		cmd.Print("Validating embedding configuration... ")
		if err := settingsService.ValidateEmbeddingConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, otherwise a line from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
