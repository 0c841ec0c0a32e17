package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/failcase-advisor/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

var testCases = []domain.RankedResult{
	{Score: 0.87, Title: "溶接部の割れ", Body: "予熱不足"},
	{Score: 0.52, Title: "ボルトの緩み", Body: "締付けトルク不足"},
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	app.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return app
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingSearchService)
	assert.Nil(t, app)
}

func TestNewApp_ModeFollowsAdvice(t *testing.T) {
	withAdvice, err := NewApp(&Ports{Search: &MockSearchService{}, Advice: &MockAdviceService{}})
	require.NoError(t, err)
	assert.Equal(t, messages.ModeAdvice, withAdvice.Mode())

	searchOnly, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)
	assert.Equal(t, messages.ModeSearch, searchOnly.Mode())
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(&Ports{Search: &MockSearchService{}})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_ViewBeforeSize(t *testing.T) {
	app, _ := NewApp(&Ports{Search: &MockSearchService{}})

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(&Ports{Search: &MockSearchService{}})

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Equal(t, 36, app.history.Height)
	assert.Contains(t, app.View(), "質問を入力してください")
}

func TestApp_AskFlow(t *testing.T) {
	var gotOpts domain.SearchOptions
	advice := &MockAdviceService{AskFunc: func(
		_ context.Context, q string, opts domain.SearchOptions,
	) (*domain.Advice, error) {
		gotOpts = opts
		return &domain.Advice{Question: q, Answer: "予熱温度を管理してください。", Results: testCases}, nil
	}}
	app := newTestApp(t, &Ports{Search: &MockSearchService{}, Advice: advice, TopK: 2})

	typeText(app, "割れを防ぐには")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, app.Busy())
	assert.Empty(t, app.input.Value())
	assert.Equal(t, status.StateThinking, app.statusbar.State())

	msg := app.submit("割れを防ぐには")()
	app.Update(msg)

	assert.False(t, app.Busy())
	assert.Equal(t, 2, gotOpts.TopK)
	require.Len(t, app.Exchanges(), 1)
	ex := app.Exchanges()[0]
	assert.Equal(t, "割れを防ぐには", ex.Question)
	assert.Equal(t, "予熱温度を管理してください。", ex.Answer)

	view := app.View()
	assert.Contains(t, view, "Q: 割れを防ぐには")
	assert.Contains(t, view, "【溶接部の割れ】")
	assert.Contains(t, view, "(0.870)")
	assert.Contains(t, view, "2 cases")
}

func TestApp_SearchMode(t *testing.T) {
	search := &MockSearchService{SearchFunc: func(
		_ context.Context, _ string, _ domain.SearchOptions,
	) ([]domain.RankedResult, error) {
		return testCases, nil
	}}
	app := newTestApp(t, &Ports{Search: search})

	app.Update(app.submit("緩み")())

	require.Len(t, app.Exchanges(), 1)
	assert.Empty(t, app.Exchanges()[0].Answer)
	assert.Len(t, app.Exchanges()[0].Results, 2)
}

func TestApp_EmptyQuestionIgnored(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})

	typeText(app, "   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.Busy())
}

func TestApp_KeysIgnoredWhileBusy(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})
	typeText(app, "q")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, app.Busy())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestApp_AnswerError(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}, Advice: &MockAdviceService{
		AskFunc: func(_ context.Context, _ string, _ domain.SearchOptions) (*domain.Advice, error) {
			return nil, &domain.ServiceError{Provider: "openai", StatusCode: 500, Err: errors.New("down")}
		},
	}})

	app.Update(app.submit("q")())

	var svcErr *domain.ServiceError
	assert.ErrorAs(t, app.Err(), &svcErr)
	assert.Empty(t, app.Exchanges())
	assert.Equal(t, status.StateError, app.statusbar.State())
	assert.Contains(t, app.View(), "Error: openai: status 500: down")
}

func TestApp_ToggleMode(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}, Advice: &MockAdviceService{}})

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, messages.ModeSearch, app.Mode())
	assert.Equal(t, "Search", app.input.Label())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, messages.ModeAdvice, app.Mode())
}

func TestApp_ToggleModeWithoutAdvice(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	assert.Equal(t, messages.ModeSearch, app.Mode())
	assert.Equal(t, status.StateError, app.statusbar.State())
}

func TestApp_SaveReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	app := newTestApp(t, &Ports{Search: &MockSearchService{}, Advice: &MockAdviceService{
		AskFunc: func(_ context.Context, q string, _ domain.SearchOptions) (*domain.Advice, error) {
			return &domain.Advice{Question: q, Answer: "対策A", Results: testCases}, nil
		},
	}, SaveDir: dir})
	app.Update(app.submit("割れ")())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()
	saved, ok := msg.(messages.ReportSaved)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.Equal(t, filepath.Join(dir, "advice_20240601_100000.txt"), saved.Path)

	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "質問: 割れ")
	assert.Contains(t, string(data), "対策A")

	app.Update(msg)
	assert.Equal(t, status.StateSaved, app.statusbar.State())
}

func TestApp_SaveWithoutHistory(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.Equal(t, status.StateError, app.statusbar.State())
}

func TestApp_ClearHistory(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})
	app.Update(messages.Answered{Exchange: messages.Exchange{Question: "q"}})
	require.Len(t, app.Exchanges(), 1)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Empty(t, app.Exchanges())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, &Ports{Search: &MockSearchService{}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
