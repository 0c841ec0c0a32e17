// Command advisor answers questions from past manufacturing failure cases.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/advice"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/ai"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/config/file"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/storage/csvlog"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/cli"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/services"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	_ = godotenv.Load()

	configDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(configDir); err != nil {
		logger.Warn("Config file unavailable, using in-memory settings: %v", err)
		configStore = memory.NewConfigStoreFrom(nil)
	} else {
		configStore = store
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var prompts driven.PromptStore
	if promptStore, err := file.NewPromptStore(filepath.Join(configDir, "prompts")); err != nil {
		logger.Warn("Prompt directory unavailable, using built-in prompts: %v", err)
	} else {
		prompts = promptStore
	}

	corpusService := services.NewCorpusService(normalisers.NewDefaultRegistry())
	encoder := ai.NewLazyEncoder(settings.Embedding)
	defer encoder.Close()

	searchService := services.NewSearchService(corpusService, encoder, settings.Corpus.Dir)

	llm := ai.NewLazyLLM(settings.LLM)
	defer llm.Close()

	generator := advice.NewGenerator(llm, prompts, settings.LLM)

	queryLog, err := openQueryLog(settings.Log)
	if err != nil {
		logger.Warn("Query log disabled: %v", err)
	}
	if queryLog != nil {
		defer queryLog.Close()
	}

	adviceService := services.NewAdviceService(searchService, generator, queryLog)

	svc := cli.Services{
		Corpus:   corpusService,
		Search:   searchService,
		Advice:   adviceService,
		Settings: settingsService,
	}
	if reader, ok := queryLog.(driven.QueryLogReader); ok {
		svc.QueryLog = reader
	}
	cli.SetServices(svc)
	cli.SetVersion(version)

	if err := cli.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

// openQueryLog opens the configured sink. LogSinkNone yields a nil log.
func openQueryLog(cfg domain.LogSettings) (driven.QueryLog, error) {
	switch cfg.Sink {
	case domain.LogSinkCSV:
		l, err := csvlog.New(cfg.ResolvedPath())
		if err != nil {
			return nil, err
		}
		return l, nil
	case domain.LogSinkSQLite:
		store, err := sqlite.NewStore(cfg.ResolvedPath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.LogSinkNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown log sink %q", domain.ErrInvalidInput, cfg.Sink)
	}
}
