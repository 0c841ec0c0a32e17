package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero query", []float32{0, 0}, []float32{1, 1}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRank_OrdersByDescendingScore(t *testing.T) {
	query := []float32{1, 0}
	vectors := [][]float32{
		{0, 1},   // 0
		{1, 0},   // 1
		{1, 1},   // ~0.707
		{-1, 0},  // -1
	}

	ranked, err := Rank(query, vectors, 10)

	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, []int{1, 2, 0, 3}, indices(ranked))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	query := []float32{1, 1}
	same := []float32{2, 3}
	vectors := [][]float32{{0, 1}, same, {1, 0}, same, same}

	ranked, err := Rank(query, vectors, 5)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 0, 2}, indices(ranked))
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, ranked[3].Score, ranked[4].Score)
}

func TestRank_TopK(t *testing.T) {
	query := []float32{1, 0}
	vectors := [][]float32{{1, 0}, {0.5, 0.5}, {0, 1}}

	tests := []struct {
		name string
		topK int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"one", 1, 1},
		{"exact", 3, 3},
		{"beyond", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := Rank(query, vectors, tt.topK)
			require.NoError(t, err)
			assert.Len(t, ranked, tt.want)
			assert.NotNil(t, ranked)
		})
	}
}

func TestRank_Empty(t *testing.T) {
	ranked, err := Rank([]float32{1}, nil, 3)

	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_DimensionMismatch(t *testing.T) {
	_, err := Rank([]float32{1, 0}, [][]float32{{1, 0}, {1}}, 2)

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "record 1")
}

func indices(ranked []domain.ScoredIndex) []int {
	out := make([]int, len(ranked))
	for i, r := range ranked {
		out[i] = r.Index
	}
	return out
}
