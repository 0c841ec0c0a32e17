package domain

import (
	"strings"
)

// DefaultTopK is the number of results returned when none is requested.
const DefaultTopK = 3

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of results. Zero or negative yields none.
	TopK int

	// Uploads are parsed and placed ahead of the base corpus.
	Uploads []Upload
}

// ScoredIndex pairs a corpus position with its similarity score.
type ScoredIndex struct {
	Index int
	Score float64
}

// RankedResult is a record with its similarity to the query.
type RankedResult struct {
	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"score"`

	// Title is the record title.
	Title string `json:"title"`

	// Body is the record body.
	Body string `json:"body"`
}

// BuildContext joins results into the text block handed to the advice generator.
// Each result renders as "【title】\nbody"; blocks are separated by a newline.
func BuildContext(results []RankedResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = "【" + r.Title + "】\n" + r.Body
	}
	return strings.Join(blocks, "\n")
}
