// Package tui provides an interactive chat for asking about failure cases.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
)

// Ports aggregates the driving ports and options used by the TUI.
type Ports struct {
	// Search retrieves similar cases. Required.
	Search driving.SearchService

	// Advice generates answers. Without it the TUI runs in search mode only.
	Advice driving.AdviceService

	// TopK is the number of cases per question.
	TopK int

	// SaveDir receives reports written with ctrl+s.
	SaveDir string
}

// Validate ensures required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

func (p *Ports) topK() int {
	if p.TopK > 0 {
		return p.TopK
	}
	return domain.DefaultTopK
}

func (p *Ports) saveDir() string {
	if p.SaveDir != "" {
		return p.SaveDir
	}
	return "."
}
