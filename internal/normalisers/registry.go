package normalisers

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps formats to their normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.Format]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[domain.Format]driven.Normaliser),
	}
}

// Register adds a normaliser, replacing any existing one for its format.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.Format()] = n
}

// Lookup returns the normaliser for a format.
func (r *Registry) Lookup(f domain.Format) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.normalisers[f]
	return n, ok
}

// Normalise parses content with the normaliser selected by the name's extension.
// Files with no registered normaliser produce no records and no error.
func (r *Registry) Normalise(ctx context.Context, name string, content []byte) ([]domain.Record, error) {
	n, ok := r.Lookup(domain.FormatFromFilename(name))
	if !ok {
		return nil, nil
	}
	return n.Normalise(ctx, name, content)
}

// Supports returns true if a file with this name would be parsed.
func (r *Registry) Supports(name string) bool {
	_, ok := r.Lookup(domain.FormatFromFilename(name))
	return ok
}

// SupportedFormats returns the registered formats in declaration order.
func (r *Registry) SupportedFormats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.Format, 0, len(r.normalisers))
	for f := range r.normalisers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
