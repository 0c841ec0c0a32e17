package domain

import (
	"fmt"
	"strings"
	"time"
)

// Advice is a generated answer together with the cases it was grounded in.
type Advice struct {
	// Question is the user's query.
	Question string `json:"question"`

	// Answer is the generated advisory text.
	Answer string `json:"answer"`

	// Results are the ranked cases supplied as context.
	Results []RankedResult `json:"results"`

	// Context is the exact text passed to the generator.
	Context string `json:"context"`

	// CreatedAt is when the answer was produced.
	CreatedAt time.Time `json:"created_at"`
}

// Report renders the advice as a downloadable plain-text report.
func (a Advice) Report() string {
	return FormatResultsText(a.Question, a.Results, a.Answer)
}

// QueryLogEntry is one appended (timestamp, query, answer) tuple.
type QueryLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
}

// FormatResultsText renders ranked cases and an optional answer as plain text.
func FormatResultsText(question string, results []RankedResult, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "質問: %s\n\n", question)
	b.WriteString("類似事例:\n")
	if len(results) == 0 {
		b.WriteString("(該当なし)\n")
	}
	for i, r := range results {
		fmt.Fprintf(&b, "%d. 【%s】 (類似度: %.3f)\n%s\n\n", i+1, r.Title, r.Score, r.Body)
	}
	if answer != "" {
		b.WriteString("\nアドバイス:\n")
		b.WriteString(answer)
		b.WriteString("\n")
	}
	return b.String()
}
