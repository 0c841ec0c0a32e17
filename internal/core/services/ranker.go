package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Accumulation is done in float64. A zero vector has similarity 0 with
// everything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push identical vectors fractionally past 1.
	return math.Max(-1, math.Min(1, sim)), nil
}

// Rank scores every vector against query and returns the topK highest,
// ordered by descending score. Equal scores keep their input order.
// A topK of zero or less returns nothing; a topK beyond len(vectors)
// returns every vector.
func Rank(query []float32, vectors [][]float32, topK int) ([]domain.ScoredIndex, error) {
	if topK <= 0 || len(vectors) == 0 {
		return []domain.ScoredIndex{}, nil
	}

	scored := make([]domain.ScoredIndex, len(vectors))
	for i, v := range vectors {
		score, err := CosineSimilarity(query, v)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		scored[i] = domain.ScoredIndex{Index: i, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}
