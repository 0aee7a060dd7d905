package cached_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/mnemo-ai/mnemo/memory/embedder/cached"
	"github.com/mnemo-ai/mnemo/memory/embedder/mock"
)

// countingEmbedder wraps the mock embedder and counts Embed calls.
type countingEmbedder struct {
	inner *mock.Embedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func TestCached_RepeatTextHitsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{inner: mock.New(64)}
	embedder, err := cached.New(inner, 16)
	if err != nil {
		t.Fatalf("Failed to create cached embedder: %v", err)
	}

	first, err := embedder.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := embedder.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("Inner embedder called %d times, want 1", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Cached vector differs from computed vector")
	}
}

func TestCached_DistinctTextsMiss(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{inner: mock.New(64)}
	embedder, err := cached.New(inner, 16)
	if err != nil {
		t.Fatalf("Failed to create cached embedder: %v", err)
	}

	if _, err := embedder.Embed(ctx, "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := embedder.Embed(ctx, "two"); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 2 {
		t.Errorf("Inner embedder called %d times, want 2", inner.calls)
	}
}

func TestCached_SmallCacheAdmitsEntries(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{inner: mock.New(64)}
	embedder, err := cached.New(inner, 16)
	if err != nil {
		t.Fatalf("Failed to create cached embedder: %v", err)
	}

	texts := []string{"alpha", "beta", "gamma"}
	for round := 0; round < 2; round++ {
		for _, text := range texts {
			if _, err := embedder.Embed(ctx, text); err != nil {
				t.Fatalf("Embed failed: %v", err)
			}
		}
	}

	if inner.calls != len(texts) {
		t.Errorf("Inner embedder called %d times, want %d", inner.calls, len(texts))
	}
}

func TestCached_DimensionsPassThrough(t *testing.T) {
	embedder, err := cached.New(mock.New(128), 16)
	if err != nil {
		t.Fatalf("Failed to create cached embedder: %v", err)
	}
	if embedder.Dimensions() != 128 {
		t.Errorf("Dimensions = %d, want 128", embedder.Dimensions())
	}
}
