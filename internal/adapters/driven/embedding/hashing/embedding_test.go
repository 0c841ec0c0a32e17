package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultMinGram, svc.minGram)
	assert.Equal(t, DefaultMaxGram, svc.maxGram)
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestEmbed_IsUnitLengthAndDeterministic(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 128})

	a, err := svc.Embed(context.Background(), "ネジの緩み 振動による")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "ネジの緩み 振動による")
	require.NoError(t, err)

	require.Len(t, a, 128)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, math.Sqrt(cosine(a, a)), 1e-5)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})

	for _, text := range []string{"", "   ", "!?、。"} {
		v, err := svc.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, make([]float32, 16), v, "text %q", text)
	}
}

func TestEmbed_FoldsFullWidthAndCase(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	a, err := svc.Embed(context.Background(), "ＳＣＲＥＷ　１２３")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "screw 123")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbed_RelatedTextScoresHigher(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx := context.Background()

	vectors, err := svc.EmbedBatch(ctx, []string{
		"why do screws loosen",
		"Loose Screw vibration causes loosening",
		"Crack thermal cycling cracks",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Greater(t, cosine(vectors[0], vectors[1]), cosine(vectors[0], vectors[2]))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx := context.Background()
	texts := []string{"alpha", "beta", "gamma"}

	batch, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)

	for i, text := range texts {
		single, err := svc.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"why", "do", "screws", "loosen"}, tokenize("Why do screws loosen?"))
	assert.Equal(t, []string{"ネジの緩み", "対策"}, tokenize("ネジの緩み、対策"))
	assert.Empty(t, tokenize(""))
}
