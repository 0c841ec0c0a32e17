package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var loadDir string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Parse the corpus directory and report what was loaded",
	Long: `Scans the corpus directory once and prints how many cases each file
contributed, which files were skipped and which failed to parse.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadDir, "dir", "d", "", "corpus directory (default from settings)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	dir := loadDir
	if dir == "" {
		dir = currentSettings().Corpus.Dir
	}

	if _, err := corpusService.LoadBase(cmd.Context(), dir); err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	report := corpusService.Report(dir)
	if report == nil {
		return fmt.Errorf("no load report for %s", dir)
	}

	cmd.Printf("Corpus: %s\n", report.Dir)
	cmd.Println()
	for _, name := range slices.Sorted(maps.Keys(report.RecordsPerFile)) {
		cmd.Printf("  %-40s %d cases\n", name, report.RecordsPerFile[name])
	}
	for _, name := range report.Skipped {
		cmd.Printf("  %-40s skipped\n", name)
	}
	for _, f := range report.Failures {
		cmd.Printf("  %-40s failed: %s\n", f.File, f.Error)
	}
	cmd.Println()
	cmd.Printf("Total: %d cases\n", report.Total)
	return nil
}
