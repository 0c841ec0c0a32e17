package domain

import "strings"

// Placeholder values substituted when a source field is absent or blank.
const (
	// DefaultTitle is used when a record has no title.
	DefaultTitle = "タイトルなし"

	// DefaultBody is used when a record has no body.
	DefaultBody = "本文なし"
)

// Record is a single failure case: a title paired with body text.
// Records are values and are never mutated after construction.
type Record struct {
	// Title names the case, or the heading a chunk was found under.
	Title string `json:"title"`

	// Body is the case description.
	Body string `json:"body"`
}

// NewRecord builds a record, substituting placeholders for blank fields.
func NewRecord(title, body string) Record {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	if strings.TrimSpace(body) == "" {
		body = DefaultBody
	}
	return Record{Title: title, Body: body}
}

// Text returns the comparison text used for embedding.
func (r Record) Text() string {
	return r.Title + " " + r.Body
}

// Corpus is an ordered sequence of records.
type Corpus []Record

// Merge returns uploaded records followed by base records.
// Neither input is modified and no deduplication is performed.
func Merge(base, uploaded Corpus) Corpus {
	out := make(Corpus, 0, len(uploaded)+len(base))
	out = append(out, uploaded...)
	out = append(out, base...)
	return out
}

// Texts returns the comparison text of every record, in order.
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, r := range c {
		texts[i] = r.Text()
	}
	return texts
}

// Upload is an in-memory file submitted alongside a query.
type Upload struct {
	// Name is the original filename. It selects the parser and
	// prefixes synthesised titles.
	Name string

	// Content is the raw file bytes.
	Content []byte
}
