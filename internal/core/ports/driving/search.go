package driving

import (
	"context"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// SearchService provides retrieval to external actors.
type SearchService interface {
	// Search ranks the base corpus plus any uploads against the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RankedResult, error)
}

// AdviceService answers questions grounded in retrieved cases.
type AdviceService interface {
	// Ask retrieves similar cases and generates advice from them.
	Ask(ctx context.Context, question string, opts domain.SearchOptions) (*domain.Advice, error)
}
