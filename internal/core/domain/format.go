package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies how a document is parsed into records.
type Format int

// Supported formats.
const (
	// FormatUnsupported marks files that are skipped without error.
	FormatUnsupported Format = iota

	// FormatCSV is a comma-separated table with a header row.
	FormatCSV

	// FormatSpreadsheet is an xlsx workbook whose second row is the header.
	FormatSpreadsheet

	// FormatPDF is a PDF document, one record per page.
	FormatPDF

	// FormatWordDoc is a docx document, one record per body paragraph.
	FormatWordDoc
)

// FormatFromFilename resolves the format from a file extension.
// Matching is case-insensitive.
func FormatFromFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatSpreadsheet
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatWordDoc
	default:
		return FormatUnsupported
	}
}

// IsSupported returns true if files of this format can be parsed.
func (f Format) IsSupported() bool {
	return f != FormatUnsupported
}

// String returns the string representation.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	case FormatWordDoc:
		return "docx"
	default:
		return "unsupported"
	}
}

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatCSV, FormatSpreadsheet, FormatPDF, FormatWordDoc}
}
