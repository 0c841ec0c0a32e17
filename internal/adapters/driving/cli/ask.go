package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

var (
	askTopK   int
	askFiles  []string
	askOutput string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Get advice grounded in similar failure cases",
	Long: `Retrieves the failure cases most similar to the question and asks the
configured LLM for advice based on them. The exchange is appended to the
query log.

Use --output to save the cases and the advice as a plain-text report.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", domain.DefaultTopK, "number of cases to use as context")
	askCmd.Flags().StringArrayVarP(&askFiles, "file", "f", nil, "additional case file (repeatable)")
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "write a text report to this file")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if adviceService == nil {
		return errors.New("advice service not configured")
	}

	uploads, err := readUploads(askFiles)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		TopK:    resolveTopK(cmd, askTopK),
		Uploads: uploads,
	}

	advice, err := adviceService.Ask(cmd.Context(), question, opts)
	if err != nil {
		var svcErr *domain.ServiceError
		if errors.As(err, &svcErr) {
			cmd.PrintErrf("The %s API returned an error. Check the llm settings with 'advisor settings show'.\n",
				svcErr.Provider)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	outputSearchTable(cmd, advice.Results)
	cmd.Println("Advice:")
	cmd.Println()
	cmd.Println(advice.Answer)

	if askOutput != "" {
		if err := writeReport(askOutput, advice.Report()); err != nil {
			return err
		}
		cmd.Printf("\nReport saved to %s\n", askOutput)
	}

	return nil
}

func writeReport(path, report string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
