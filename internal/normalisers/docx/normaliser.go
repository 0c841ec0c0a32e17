// Package docx parses Word documents into heading-grouped records.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatWordDoc.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatWordDoc
}

// Normalise scans top-level paragraphs in order. A heading paragraph sets
// the title for every following body paragraph until the next heading;
// each non-empty body paragraph becomes one record.
func (n *Normaliser) Normalise(_ context.Context, name string, content []byte) ([]domain.Record, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.NewParseError(name, fmt.Errorf("open archive: %w", err))
	}

	docXML, err := readPart(reader, documentPart)
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	// styles.xml is optional; without it style IDs are used as names.
	styleNames := map[string]string{}
	if stylesXML, err := readPart(reader, stylesPart); err == nil {
		styleNames = parseStyles(stylesXML)
	}

	paragraphs, err := parseParagraphs(docXML)
	if err != nil {
		return nil, domain.NewParseError(name, err)
	}

	return fold(paragraphs, styleNames), nil
}

// paragraph is one top-level w:p element.
type paragraph struct {
	styleID string
	text    string
}

// fold walks paragraphs carrying the current heading.
func fold(paragraphs []paragraph, styleNames map[string]string) []domain.Record {
	currentTitle := ""
	records := make([]domain.Record, 0, len(paragraphs))

	for _, p := range paragraphs {
		text := strings.TrimSpace(p.text)
		if isHeading(p.styleID, styleNames) {
			currentTitle = text
			continue
		}
		if text == "" {
			continue
		}
		records = append(records, domain.NewRecord(currentTitle, text))
	}
	return records
}

// isHeading reports whether the paragraph style is a heading style.
func isHeading(styleID string, styleNames map[string]string) bool {
	if styleID == "" {
		return false
	}
	name, ok := styleNames[styleID]
	if !ok {
		name = styleID
	}
	return strings.HasPrefix(strings.ToLower(name), "heading")
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing %s", name)
}

// stylesXML represents the parts of word/styles.xml we need.
type stylesXML struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

func parseStyles(content []byte) map[string]string {
	var doc stylesXML
	names := make(map[string]string)
	if err := xml.Unmarshal(content, &doc); err != nil {
		return names
	}
	for _, s := range doc.Styles {
		if s.ID != "" && s.Name.Val != "" {
			names[s.ID] = s.Name.Val
		}
	}
	return names
}

// parseParagraphs streams word/document.xml and returns the paragraphs that
// are direct children of w:body. Only run text belonging to the paragraph
// itself is collected (directly or through a hyperlink); text boxes and
// other nested content are ignored.
func parseParagraphs(content []byte) ([]paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		stack      []string
		paragraphs []paragraph
		current    *paragraph
		text       strings.Builder
		pDepth     = -1
	)

	// ownRun reports whether the innermost element of open is a run
	// belonging to the current paragraph.
	ownRun := func(open []string) bool {
		n := len(open)
		if pDepth < 0 || n < pDepth+2 || open[n-1] != "r" {
			return false
		}
		switch n - pDepth {
		case 2:
			return true
		case 3:
			return open[n-2] == "hyperlink"
		}
		return false
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body":
				current = &paragraph{}
				text.Reset()
				pDepth = len(stack)
			case current != nil && name == "pStyle" && len(stack) == pDepth+2 && stack[len(stack)-1] == "pPr":
				current.styleID = attr(t, "val")
			case current != nil && name == "tab" && ownRun(stack):
				text.WriteString("\t")
			case current != nil && (name == "br" || name == "cr") && ownRun(stack):
				text.WriteString("\n")
			}
			stack = append(stack, name)

		case xml.CharData:
			n := len(stack)
			if current != nil && n > 0 && stack[n-1] == "t" && ownRun(stack[:n-1]) {
				text.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if current != nil && t.Name.Local == "p" && len(stack) == pDepth {
				current.text = text.String()
				paragraphs = append(paragraphs, *current)
				current = nil
				pDepth = -1
			}
		}
	}

	return paragraphs, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
