package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// chromeHeight is the input box plus the status bar.
const chromeHeight = 4

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input     *input.QuestionInput
	history   viewport.Model
	statusbar *status.Bar

	// exchanges is the session history, oldest first.
	exchanges []messages.Exchange

	mode messages.Mode
	busy bool
	err  error
	now  func() time.Time

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	mode := messages.ModeAdvice
	if ports.Advice == nil {
		mode = messages.ModeSearch
	}

	in := input.NewQuestionInput(s)
	in.SetLabel(mode.String())

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		input:     in,
		history:   viewport.New(80, 20),
		statusbar: status.NewBar(s, km),
		mode:      mode,
		now:       time.Now,
	}, nil
}

// WithContext sets the context passed to the services.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.input.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.statusbar, cmd = a.statusbar.Update(msg)
		return a, cmd

	case messages.Answered:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetState(status.StateError)
			a.statusbar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.exchanges = append(a.exchanges, msg.Exchange)
		a.statusbar.SetState(status.StateReady)
		a.statusbar.SetMessage(fmt.Sprintf("%d cases", len(msg.Exchange.Results)))
		a.refresh()
		return a, nil

	case messages.ReportSaved:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetState(status.StateError)
			a.statusbar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.statusbar.SetState(status.StateSaved)
		a.statusbar.SetMessage("Saved " + msg.Path)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keymap.Quit) {
		return a, tea.Quit
	}

	if key.Matches(msg, a.keymap.ScrollUp, a.keymap.ScrollDown) {
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd
	}

	if a.busy {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keymap.Submit):
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.busy = true
		a.input.Reset()
		a.statusbar.SetMessage("")
		spin := a.statusbar.SetState(status.StateThinking)
		return a, tea.Batch(spin, a.submit(question))

	case key.Matches(msg, a.keymap.ToggleMode):
		a.toggleMode()
		return a, nil

	case key.Matches(msg, a.keymap.Save):
		if len(a.exchanges) == 0 {
			a.statusbar.SetState(status.StateError)
			a.statusbar.SetMessage("nothing to save yet")
			return a, nil
		}
		return a, a.save(a.exchanges[len(a.exchanges)-1])

	case key.Matches(msg, a.keymap.Clear):
		a.exchanges = nil
		a.statusbar.Clear()
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) toggleMode() {
	if a.ports.Advice == nil {
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage("advice is not configured, search only")
		return
	}
	if a.mode == messages.ModeAdvice {
		a.mode = messages.ModeSearch
	} else {
		a.mode = messages.ModeAdvice
	}
	a.input.SetLabel(a.mode.String())
	a.input.SetWidth(a.width)
	a.statusbar.Clear()
}

// submit runs the question against the services off the event loop.
func (a *App) submit(question string) tea.Cmd {
	ctx, ports, mode, now := a.ctx, a.ports, a.mode, a.now
	return func() tea.Msg {
		opts := domain.SearchOptions{TopK: ports.topK()}
		ex := messages.Exchange{Question: question, At: now()}

		if mode == messages.ModeAdvice {
			advice, err := ports.Advice.Ask(ctx, question, opts)
			if err != nil {
				return messages.Answered{Exchange: ex, Err: err}
			}
			ex.Results = advice.Results
			ex.Answer = advice.Answer
			return messages.Answered{Exchange: ex}
		}

		results, err := ports.Search.Search(ctx, question, opts)
		ex.Results = results
		return messages.Answered{Exchange: ex, Err: err}
	}
}

// save writes ex as a text report into the save directory.
func (a *App) save(ex messages.Exchange) tea.Cmd {
	dir := a.ports.saveDir()
	return func() tea.Msg {
		name := fmt.Sprintf("advice_%s.txt", ex.At.Format("20060102_150405"))
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return messages.ReportSaved{Err: fmt.Errorf("create %s: %w", dir, err)}
		}
		if err := os.WriteFile(path, []byte(ex.Report()), 0644); err != nil {
			return messages.ReportSaved{Err: fmt.Errorf("write report: %w", err)}
		}
		return messages.ReportSaved{Path: path}
	}
}

// refresh re-renders the history and scrolls to the newest exchange.
func (a *App) refresh() {
	a.history.SetContent(a.renderHistory())
	a.history.GotoBottom()
}

func (a *App) renderHistory() string {
	if len(a.exchanges) == 0 {
		return a.styles.Muted.Render("過去の失敗事例をもとにアドバイスします。質問を入力してください。")
	}

	wrap := lipgloss.NewStyle().Width(max(a.width-4, 20))
	var b strings.Builder
	for _, ex := range a.exchanges {
		b.WriteString(a.styles.Question.Render("Q: " + ex.Question))
		b.WriteString("\n")
		if len(ex.Results) == 0 {
			b.WriteString(a.styles.Muted.Render("  (該当なし)"))
			b.WriteString("\n")
		}
		for i, r := range ex.Results {
			fmt.Fprintf(&b, "  %d. %s %s\n", i+1,
				a.styles.CaseTitle.Render("【"+r.Title+"】"),
				a.styles.Score.Render(fmt.Sprintf("(%.3f)", r.Score)))
		}
		if ex.Answer != "" {
			b.WriteString("\n")
			b.WriteString(a.styles.Answer.Render(wrap.Render(ex.Answer)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.history.View(),
		a.input.View(),
		a.statusbar.View(),
	)
}

// Exchanges returns the session history.
func (a *App) Exchanges() []messages.Exchange {
	return a.exchanges
}

// Mode returns the current submit mode.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Busy reports whether a question is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every component to the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.history.Width = width
	a.history.Height = max(height-chromeHeight, 3)
	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)
	a.refresh()
}
