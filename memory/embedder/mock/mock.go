// Package mock provides a deterministic fake embedder for tests.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates embeddings from a hash of the input text. The
// vectors carry no semantic meaning, but identical input always yields
// the identical vector, which is all the Manager's contract requires.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder. Zero dimensions defaults to 384 to
// match all-MiniLM-L6-v2.
func New(dimensions int) *Embedder {
	if dimensions == 0 {
		dimensions = 384
	}
	return &Embedder{dimensions: dimensions}
}

// Embed derives a unit vector from the FNV hash of the text, expanded
// through an LCG.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
