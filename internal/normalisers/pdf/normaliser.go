// Package pdf parses PDF documents into one record per page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatPDF.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Normalise emits one record per page titled "<filename> page <n>".
// Pages without extractable text, such as scanned images, are omitted.
// A document that cannot be opened fails as a whole.
func (n *Normaliser) Normalise(ctx context.Context, name string, content []byte) (records []domain.Record, err error) {
	// The reader panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = domain.NewParseError(name, fmt.Errorf("corrupt pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	base := filepath.Base(name)
	pages := reader.NumPage()
	records = make([]domain.Record, 0, pages)

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := pageText(reader.Page(i))
		if text == "" {
			logger.Debug("pdf %s: page %d has no text, skipping", base, i)
			continue
		}
		records = append(records, domain.Record{
			Title: PageTitle(base, i),
			Body:  text,
		})
	}

	return records, nil
}

// PageTitle returns the synthesised title for a 1-based page number.
func PageTitle(filename string, page int) string {
	return fmt.Sprintf("%s page %d", filename, page)
}

// pageText returns the trimmed plain text of a page, or "" if it has none.
func pageText(p pdf.Page) string {
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		logger.Debug("pdf: text extraction failed: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}
