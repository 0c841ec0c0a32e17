// Package csv parses comma-separated failure case tables.
package csv

import (
	"bytes"
	"context"
	encsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/tabular"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles CSV files whose first row is a header.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatCSV.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatCSV
}

// Normalise parses one record per data row. Content that is not valid
// UTF-8 is decoded as Shift_JIS, which spreadsheet tools commonly export.
func (n *Normaliser) Normalise(_ context.Context, name string, content []byte) ([]domain.Record, error) {
	text, err := decode(content)
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	r := encsv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewParseError(name, errors.New("empty file"))
	}
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	return tabular.Records(header, rows), nil
}

func decode(content []byte) ([]byte, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return content, nil
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("decode shift_jis: %w", err)
	}
	return decoded, nil
}
