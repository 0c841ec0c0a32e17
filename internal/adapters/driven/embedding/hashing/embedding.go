// Package hashing provides an offline embedding service based on feature
// hashing of words and character n-grams.
//
// It needs no model download or network access, so it is the default
// encoder. Text is NFKC-folded and lowercased first, which maps full-width
// Latin and digits onto their ASCII forms.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashing-ngram"
	DefaultDimensions = 512
	DefaultMinGram    = 2
	DefaultMaxGram    = 3
)

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 512).
	Dimensions int

	// MinGram and MaxGram bound the character n-gram lengths (default: 2..3).
	MinGram int
	MaxGram int
}

// EmbeddingService maps text to signed, L2-normalised feature-hash vectors.
// It is stateless and safe for concurrent use.
type EmbeddingService struct {
	dimensions int
	minGram    int
	maxGram    int
}

// NewEmbeddingService creates a new hashing embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.MinGram <= 0 {
		cfg.MinGram = DefaultMinGram
	}
	if cfg.MaxGram < cfg.MinGram {
		cfg.MaxGram = max(cfg.MinGram, DefaultMaxGram)
	}

	return &EmbeddingService{
		dimensions: cfg.Dimensions,
		minGram:    cfg.MinGram,
		maxGram:    cfg.MaxGram,
	}
}

// Embed generates a vector embedding for the given text.
// Text without letters or digits maps to the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, s.dimensions)
	for _, token := range tokenize(text) {
		s.add(acc, "w:"+token)

		runes := []rune(token)
		for n := s.minGram; n <= s.maxGram; n++ {
			if len(runes) < n {
				break
			}
			for i := 0; i+n <= len(runes); i++ {
				s.add(acc, "g:"+string(runes[i:i+n]))
			}
		}
	}

	return normalise(acc), nil
}

// EmbedBatch generates one embedding per text, in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// add hashes feature into acc. The top hash bit picks the sign so that
// collisions cancel on average instead of accumulating.
func (s *EmbeddingService) add(acc []float64, feature string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(len(acc)))
	if sum>>63 == 1 {
		acc[idx]--
	} else {
		acc[idx]++
	}
}

// tokenize folds text and splits it into runs of letters and digits.
func tokenize(text string) []string {
	folded := strings.ToLower(norm.NFKC.String(text))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func normalise(acc []float64) []float32 {
	var sum float64
	for _, v := range acc {
		sum += v * v
	}

	out := make([]float32, len(acc))
	if sum == 0 {
		return out
	}

	length := math.Sqrt(sum)
	for i, v := range acc {
		out[i] = float32(v / length)
	}
	return out
}
