// Package cached wraps an Embedder with a ristretto cache keyed by the
// input text. AddMessage and ContextForResponse both embed per turn,
// often with overlapping inputs; the cache keeps that to one model
// invocation per distinct text.
package cached

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/mnemo-ai/mnemo/memory"
)

// Embedder decorates another embedder with an in-process cache. Since
// the inner embedder is deterministic per process, serving a cached
// vector is indistinguishable from recomputing it.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New creates a caching embedder holding up to maxEntries texts.
func New(inner memory.Embedder, maxEntries int64) (*Embedder, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Every entry costs 1, so MaxCost is an entry count. Without
		// this flag ristretto adds its per-entry bookkeeping bytes to
		// the cost and small caches reject every Set.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, computing and caching it
// on a miss.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		return v.([]float32), nil
	}

	embedding, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(text, embedding, 1)
	// Set is buffered; Wait makes the entry visible to the next call.
	e.cache.Wait()
	return embedding, nil
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}
