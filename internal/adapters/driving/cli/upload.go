package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// readUploads loads --file arguments into memory. Unsupported extensions
// are passed through; the corpus service skips them.
func readUploads(paths []string) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		uploads = append(uploads, domain.Upload{Name: filepath.Base(p), Content: content})
	}
	return uploads, nil
}
