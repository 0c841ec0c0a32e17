// Package cli implements the advisor command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services injected by main. Commands check for nil before use.
var (
	corpusService   driving.CorpusService
	searchService   driving.SearchService
	adviceService   driving.AdviceService
	settingsService driving.SettingsService
	queryLogReader  driven.QueryLogReader
)

// Services groups the core services the commands drive.
type Services struct {
	Corpus   driving.CorpusService
	Search   driving.SearchService
	Advice   driving.AdviceService
	Settings driving.SettingsService

	// QueryLog is nil when the configured sink cannot be read back.
	QueryLog driven.QueryLogReader
}

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Failure case advisor",
	Long: `advisor retrieves the past manufacturing failure cases most similar
to a question and asks an LLM for advice grounded in them.

Cases are read from CSV, Excel, PDF and Word files in the corpus directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the core services.
func SetServices(s Services) {
	corpusService = s.Corpus
	searchService = s.Search
	adviceService = s.Advice
	settingsService = s.Settings
	queryLogReader = s.QueryLog
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to commands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings returns the stored settings, or defaults when the
// settings service is missing or unreadable.
func currentSettings() domain.AppSettings {
	if settingsService == nil {
		return domain.DefaultAppSettings()
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Reading settings failed, using defaults: %v", err)
		return domain.DefaultAppSettings()
	}
	return *settings
}

// resolveTopK returns flagValue when the flag was given, otherwise the
// configured default.
func resolveTopK(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("top-k") {
		return flagValue
	}
	return currentSettings().Search.TopK
}
