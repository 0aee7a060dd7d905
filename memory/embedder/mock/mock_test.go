package mock_test

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/mnemo-ai/mnemo/memory/embedder/mock"
)

func TestEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New(384)

	a, err := embedder.Embed(ctx, "the same text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := embedder.Embed(ctx, "the same text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Embeddings for identical input differ")
	}

	c, _ := embedder.Embed(ctx, "different text")
	if reflect.DeepEqual(a, c) {
		t.Error("Embeddings for different input are identical")
	}
}

func TestEmbedder_UnitNorm(t *testing.T) {
	embedder := mock.New(64)
	vec, err := embedder.Embed(context.Background(), "normalize me")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 64 {
		t.Fatalf("Vector length = %d, want 64", len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("Vector norm = %f, want 1", math.Sqrt(norm))
	}
}
