package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
failure cases and request advice.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  search_failure_cases  {query, top_k}
  ask_advice            {question, top_k}

Examples:
  # Stdio mode (default)
  advisor mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  advisor mcp serve --port 8090`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settings := currentSettings()
	ports := &mcp.Ports{
		Search:      searchService,
		Advice:      adviceService,
		Corpus:      corpusService,
		QueryLog:    queryLogReader,
		CorpusDir:   settings.Corpus.Dir,
		DefaultTopK: settings.Search.TopK,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
