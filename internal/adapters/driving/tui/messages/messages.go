// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"time"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// Mode selects what submitting a question does.
type Mode int

const (
	// ModeAdvice retrieves cases and generates advice.
	ModeAdvice Mode = iota

	// ModeSearch only retrieves cases.
	ModeSearch
)

// String returns the label shown in the prompt.
func (m Mode) String() string {
	switch m {
	case ModeAdvice:
		return "Ask"
	case ModeSearch:
		return "Search"
	default:
		return "Unknown"
	}
}

// Exchange is one question with its retrieved cases and optional answer.
type Exchange struct {
	Question string
	Results  []domain.RankedResult
	Answer   string
	At       time.Time
}

// Report renders the exchange as the downloadable text report.
func (e Exchange) Report() string {
	return domain.FormatResultsText(e.Question, e.Results, e.Answer)
}

// Answered is sent when a question has been processed.
type Answered struct {
	Exchange Exchange
	Err      error
}

// ReportSaved is sent after ctrl+s writes a report.
type ReportSaved struct {
	Path string
	Err  error
}
