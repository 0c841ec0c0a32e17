package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/custodia-labs/failcase-advisor/internal/adapters/driving/http"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

var (
	serveAddr    string
	serveLogJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves search and advice over HTTP.

Endpoints:
  GET  /health
  GET  /version
  GET  /metrics          Prometheus metrics
  GET  /api/v1/corpus    load report of the corpus directory
  POST /api/v1/search    {"query": "...", "top_k": 3} or multipart with files
  POST /api/v1/ask       {"question": "...", "top_k": 3} or multipart with files
  GET  /api/v1/queries   recent query log entries`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "emit logs as JSON")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if serveLogJSON {
		logger.SetJSON(true)
	}

	settings := currentSettings()
	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	server, err := httpserver.NewServer(httpserver.Config{
		Addr:        addr,
		BodyLimitMB: settings.Server.BodyLimitMB,
		CorpusDir:   settings.Corpus.Dir,
		DefaultTopK: settings.Search.TopK,
		Version:     version,
	}, httpserver.Services{
		Corpus:   corpusService,
		Search:   searchService,
		Advice:   adviceService,
		QueryLog: queryLogReader,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Listening on %s\n", addr)
	return server.Run(ctx)
}
