// Package xlsx parses failure case workbooks.
//
// The workbooks this corpus uses carry a banner in the first row, so the
// header is read from the second row and data starts on the third.
package xlsx

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/tabular"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// HeaderRow is the zero-based index of the header row.
const HeaderRow = 1

// Normaliser handles xlsx workbooks. Only the first sheet is read.
type Normaliser struct{}

// New creates a new spreadsheet normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatSpreadsheet.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatSpreadsheet
}

// Normalise parses one record per data row of the first sheet.
func (n *Normaliser) Normalise(_ context.Context, name string, content []byte) ([]domain.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, domain.NewParseError(name, fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewParseError(name, errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.NewParseError(name, fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	if len(rows) <= HeaderRow {
		return nil, domain.NewParseError(name, errors.New("missing header row"))
	}

	return tabular.Records(rows[HeaderRow], rows[HeaderRow+1:]), nil
}
