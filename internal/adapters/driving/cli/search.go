package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

var (
	searchTopK  int
	searchFiles []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find similar failure cases",
	Long: `Ranks the failure cases in the corpus directory, plus any files given
with --file, by semantic similarity to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "number of cases to return")
	searchCmd.Flags().StringArrayVarP(&searchFiles, "file", "f", nil, "additional case file (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	uploads, err := readUploads(searchFiles)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		TopK:    resolveTopK(cmd, searchTopK),
		Uploads: uploads,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedResult) {
	if len(results) == 0 {
		cmd.Println("No similar cases found.")
		return
	}

	cmd.Println("Similar cases:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, r.Title, r.Score)
		for _, line := range strings.Split(r.Body, "\n") {
			cmd.Printf("      %s\n", line)
		}
		cmd.Println()
	}
}
