package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Query log commands",
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent questions and answers",
	Args:  cobra.NoArgs,
	RunE:  runLogList,
}

func init() {
	logListCmd.Flags().IntVarP(&logLimit, "limit", "n", 10, "maximum number of entries")
	logCmd.AddCommand(logListCmd)
	rootCmd.AddCommand(logCmd)
}

func runLogList(cmd *cobra.Command, _ []string) error {
	if queryLogReader == nil {
		return errors.New("query log is disabled or cannot be read")
	}
	if logLimit <= 0 {
		return errors.New("limit must be positive")
	}

	entries, err := queryLogReader.Recent(cmd.Context(), logLimit)
	if err != nil {
		return fmt.Errorf("read query log: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No queries logged yet.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("%s  %s\n", e.Timestamp.Local().Format(time.DateTime), e.Query)
		cmd.Printf("    %s\n\n", truncate(strings.ReplaceAll(e.Answer, "\n", " "), 120))
	}
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
