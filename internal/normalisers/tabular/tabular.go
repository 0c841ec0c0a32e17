// Package tabular maps header-addressed rows to records.
// It is shared by the CSV and spreadsheet normalisers.
package tabular

import (
	"slices"
	"strings"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// Header names accepted for each field. Matching ignores case and surrounding space.
var (
	TitleHeaders = []string{"タイトル", "title"}
	BodyHeaders  = []string{"本文", "body"}
)

// Columns holds the resolved column positions; -1 means absent.
type Columns struct {
	Title int
	Body  int
}

// Resolve finds the title and body columns in a header row.
// A field with no matching header resolves to -1.
func Resolve(header []string) Columns {
	cols := Columns{Title: -1, Body: -1}
	for i, h := range header {
		name := normaliseHeader(h)
		if cols.Title < 0 && slices.Contains(TitleHeaders, name) {
			cols.Title = i
		}
		if cols.Body < 0 && slices.Contains(BodyHeaders, name) {
			cols.Body = i
		}
	}
	return cols
}

// Records converts data rows to records, one per row. Cell text is kept
// as-is; blank cells and absent columns take the placeholder values.
func Records(header []string, rows [][]string) []domain.Record {
	cols := Resolve(header)

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.NewRecord(cell(row, cols.Title), cell(row, cols.Body)))
	}
	return records
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func normaliseHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
}
