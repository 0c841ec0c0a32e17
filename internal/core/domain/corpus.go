package domain

// FileFailure records a file that could not be parsed.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// LoadReport summarises a batch load.
type LoadReport struct {
	// Dir is the scanned directory, empty for uploads.
	Dir string `json:"dir,omitempty"`

	// RecordsPerFile counts records produced by each parsed file.
	RecordsPerFile map[string]int `json:"records_per_file"`

	// Skipped lists files with unsupported extensions.
	Skipped []string `json:"skipped,omitempty"`

	// Failures lists files whose parse failed.
	Failures []FileFailure `json:"failures,omitempty"`

	// Total is the number of records loaded.
	Total int `json:"total"`
}

// NewLoadReport creates an empty report for dir.
func NewLoadReport(dir string) *LoadReport {
	return &LoadReport{
		Dir:            dir,
		RecordsPerFile: make(map[string]int),
	}
}
