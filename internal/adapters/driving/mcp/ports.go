package mcp

import (
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
)

// Ports aggregates the services exposed over MCP.
type Ports struct {
	// Search ranks failure cases.
	Search driving.SearchService

	// Advice generates answers. Optional; ask_advice reports an error without it.
	Advice driving.AdviceService

	// Corpus exposes the base corpus load report. Optional.
	Corpus driving.CorpusService

	// QueryLog lists past questions. Optional.
	QueryLog driven.QueryLogReader

	// CorpusDir is the base corpus directory.
	CorpusDir string

	// DefaultTopK applies when a tool call omits top_k.
	DefaultTopK int
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// topK returns requested, or the configured default when requested is not positive.
func (p *Ports) topK(requested int) int {
	if requested > 0 {
		return requested
	}
	if p.DefaultTopK > 0 {
		return p.DefaultTopK
	}
	return 3
}
