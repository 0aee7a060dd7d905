package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mnemo-ai/mnemo/memory"
)

var errTest = errors.New("store down")

func TestManager_FactExtractedFromUserTurn(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(store, nil)

	mgr.AddMessage(ctx, memory.RoleUser, "my name is Alex", nil)

	facts := store.insertsTo(memory.CollectionUserFacts)
	if len(facts) != 1 {
		t.Fatalf("Expected exactly 1 fact, got %d", len(facts))
	}
	rec := facts[0]
	if rec.document != "my name is Alex" {
		t.Errorf("Fact text = %q, want the entire original message", rec.document)
	}
	if rec.metadata["category"] != "extracted" {
		t.Errorf("Fact category = %q, want extracted", rec.metadata["category"])
	}
	if !strings.HasPrefix(rec.id, "fact_") {
		t.Errorf("Fact id = %q, want fact_ prefix", rec.id)
	}
}

func TestManager_FactExtractionAtMostOnePerMessage(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(store, nil)

	// Three indicators in one message, one fact.
	mgr.AddMessage(ctx, memory.RoleUser, "I am Alex, I like hiking and I love coffee", nil)

	if facts := store.insertsTo(memory.CollectionUserFacts); len(facts) != 1 {
		t.Errorf("Expected 1 fact for multi-indicator message, got %d", len(facts))
	}
}

func TestManager_NoFactFromAssistantTurn(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(store, nil)

	mgr.AddMessage(ctx, memory.RoleAssistant, "my name is Claude and I like helping", nil)

	if facts := store.insertsTo(memory.CollectionUserFacts); len(facts) != 0 {
		t.Errorf("Expected no facts from assistant turns, got %d", len(facts))
	}
}

func TestManager_NoFactWithoutIndicator(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(store, nil)

	mgr.AddMessage(ctx, memory.RoleUser, "what's the weather tomorrow?", nil)

	if facts := store.insertsTo(memory.CollectionUserFacts); len(facts) != 0 {
		t.Errorf("Expected no facts, got %d", len(facts))
	}
}

func TestManager_StoreUserFactDefaultCategory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(store, nil)

	mgr.StoreUserFact(ctx, "enjoys long walks", "")

	facts := store.insertsTo(memory.CollectionUserFacts)
	if len(facts) != 1 {
		t.Fatalf("Expected 1 fact, got %d", len(facts))
	}
	if facts[0].metadata["category"] != "general" {
		t.Errorf("Category = %q, want general", facts[0].metadata["category"])
	}
	if facts[0].metadata["timestamp"] == "" {
		t.Error("Fact timestamp missing")
	}
}

func TestManager_UserFactsCategoryFilter(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.getAllDocs[memory.CollectionUserFacts] = []memory.Document{
		{Content: "User's name is John", Metadata: map[string]string{"category": "personal"}},
		{Content: "User loves programming", Metadata: map[string]string{"category": "interests"}},
	}
	mgr := newTestManager(store, nil)

	facts := mgr.UserFacts(ctx, "", "interests")
	if len(facts) != 1 || facts[0] != "User loves programming" {
		t.Errorf("Category filter result = %v, want only the interests fact", facts)
	}

	all := mgr.UserFacts(ctx, "", "")
	if len(all) != 2 {
		t.Errorf("Unfiltered facts = %v, want both", all)
	}
}

func TestManager_UserFactsQueryWithCategoryNarrows(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.queryResults[memory.CollectionUserFacts] = []memory.SearchResult{
		{Content: "User loves programming", Metadata: map[string]string{"category": "interests"}, Distance: 0.1},
		{Content: "User's name is John", Metadata: map[string]string{"category": "personal"}, Distance: 0.3},
	}
	mgr := newTestManager(store, nil)

	// The category filter applies to the query result set, so a
	// non-matching category yields nothing even when the query hits.
	if facts := mgr.UserFacts(ctx, "hobbies", "work"); len(facts) != 0 {
		t.Errorf("Expected no facts for non-matching category, got %v", facts)
	}

	facts := mgr.UserFacts(ctx, "hobbies", "interests")
	if len(facts) != 1 || facts[0] != "User loves programming" {
		t.Errorf("Query+category result = %v", facts)
	}
}

func TestManager_UserFactsFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.getAllErr = errTest
	mgr := newTestManager(store, nil)

	if facts := mgr.UserFacts(ctx, "", ""); facts != nil {
		t.Errorf("Expected nil facts on store failure, got %v", facts)
	}
}
