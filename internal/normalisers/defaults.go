package normalisers

import (
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/csv"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/docx"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/pdf"
	"github.com/custodia-labs/failcase-advisor/internal/normalisers/xlsx"
)

// RegisterDefaults registers all built-in normalisers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(csv.New())
	r.Register(xlsx.New())
	r.Register(pdf.New())
	r.Register(docx.New())
}

// NewDefaultRegistry returns a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
