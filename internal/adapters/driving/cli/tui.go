package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui"
)

var tuiSaveDir string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive advice chat",
	Long: `Launch a terminal chat that answers questions from similar past
failure cases. Questions and answers stay visible for the session.

Controls:
  enter      Ask
  ctrl+t     Switch between advice and search only
  ctrl+s     Save the last answer as a text report
  ctrl+l     Clear the history
  pgup/pgdn  Scroll
  esc        Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiSaveDir, "save-dir", ".", "directory for saved reports")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ports := &tui.Ports{
		Search:  searchService,
		Advice:  adviceService,
		TopK:    currentSettings().Search.TopK,
		SaveDir: tuiSaveDir,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
