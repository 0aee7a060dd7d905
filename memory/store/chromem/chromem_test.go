package chromem_test

import (
	"context"
	"testing"

	"github.com/mnemo-ai/mnemo/memory"
	"github.com/mnemo-ai/mnemo/memory/embedder/mock"
	"github.com/mnemo-ai/mnemo/memory/store/chromem"
)

func newStore(t *testing.T, path string) *chromem.Store {
	t.Helper()
	store, err := chromem.New(chromem.Config{Path: path, Dimensions: 384})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func embed(t *testing.T, e memory.Embedder, text string) []float32 {
	t.Helper()
	vec, err := e.Embed(context.Background(), text)
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}
	return vec
}

func TestStore_InsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")
	embedder := mock.New(384)

	docs := []string{
		"user: I love hiking in the mountains",
		"assistant: hiking is great exercise",
		"user: what's for dinner?",
	}
	for i, doc := range docs {
		err := store.Insert(ctx, memory.CollectionConversations,
			"msg_"+string(rune('a'+i)), embed(t, embedder, doc), doc,
			map[string]string{"role": "user"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// Querying with a stored document's own vector puts it first at
	// distance ~0.
	results, err := store.Query(ctx, memory.CollectionConversations, embed(t, embedder, docs[0]), 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Content != docs[0] {
		t.Errorf("Nearest result = %q, want %q", results[0].Content, docs[0])
	}
	if results[0].Distance > 0.001 {
		t.Errorf("Self-distance = %f, want ~0", results[0].Distance)
	}
	if results[1].Distance < results[0].Distance {
		t.Error("Results not ordered by ascending distance")
	}
}

func TestStore_QueryLimitClampedToCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")
	embedder := mock.New(384)

	doc := "user: only one record"
	if err := store.Insert(ctx, memory.CollectionConversations, "msg_1", embed(t, embedder, doc), doc, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	results, err := store.Query(ctx, memory.CollectionConversations, embed(t, embedder, doc), 10)
	if err != nil {
		t.Fatalf("Query with oversized limit failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestStore_QueryEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")
	embedder := mock.New(384)

	results, err := store.Query(ctx, memory.CollectionConversations, embed(t, embedder, "anything"), 5)
	if err != nil {
		t.Fatalf("Query on empty collection errored: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty results, got %d", len(results))
	}
}

func TestStore_CollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")
	embedder := mock.New(384)

	fact := "User's name is John"
	if err := store.Insert(ctx, memory.CollectionUserFacts, "fact_1", embed(t, embedder, fact), fact,
		map[string]string{"category": "personal"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if results, _ := store.Query(ctx, memory.CollectionConversations, embed(t, embedder, fact), 5); len(results) != 0 {
		t.Errorf("Fact leaked into conversations collection: %v", results)
	}

	docs, err := store.GetAll(ctx, memory.CollectionUserFacts)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != fact {
		t.Errorf("GetAll = %v, want the stored fact", docs)
	}
	if docs[0].Metadata["category"] != "personal" {
		t.Errorf("Metadata lost: %v", docs[0].Metadata)
	}
}

func TestStore_GetAllEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "")

	docs, err := store.GetAll(ctx, memory.CollectionUserFacts)
	if err != nil {
		t.Fatalf("GetAll on empty collection errored: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected no documents, got %d", len(docs))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := mock.New(384)

	store := newStore(t, dir)
	fact := "User lives in Berlin"
	if err := store.Insert(ctx, memory.CollectionUserFacts, "fact_1", embed(t, embedder, fact), fact,
		map[string]string{"category": "personal"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := newStore(t, dir)
	docs, err := reopened.GetAll(ctx, memory.CollectionUserFacts)
	if err != nil {
		t.Fatalf("GetAll after reopen failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != fact {
		t.Errorf("Records did not survive reopen: %v", docs)
	}
}
