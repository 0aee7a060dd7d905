package memory

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// factIndicators are the first-person phrases that trigger fact
// extraction. The match is a plain substring scan over the lower-cased
// message, so it is deliberately coarse: "I am not sure I like pizza"
// triggers just as well as "I like pizza". The whole message is stored
// as the fact rather than the clause that matched.
var factIndicators = []string{
	"my name is", "i am", "i like", "i love", "i work",
	"i live", "my favorite", "i enjoy", "i hate", "i don't like",
}

// extractUserFact stores the message as a user fact when it contains
// any fact indicator. At most one fact is stored per message, no
// matter how many indicators match.
func (m *Manager) extractUserFact(ctx context.Context, content string) {
	lower := strings.ToLower(content)
	for _, indicator := range factIndicators {
		if strings.Contains(lower, indicator) {
			m.StoreUserFact(ctx, content, "extracted")
			return
		}
	}
}

// StoreUserFact embeds a fact about the user and writes it to the
// user_facts collection. Best-effort: failures are logged and
// swallowed.
func (m *Manager) StoreUserFact(ctx context.Context, text, category string) {
	if category == "" {
		category = "general"
	}

	embedding, err := m.embedder.Embed(ctx, text)
	if err != nil {
		log.Printf("[MEMORY] Failed to store user fact: %v",
			&StoreError{Op: "embed", Collection: CollectionUserFacts, Err: err})
		return
	}

	metadata := map[string]string{
		"category":  category,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	id := "fact_" + uuid.NewString()
	if err := m.store.Insert(ctx, CollectionUserFacts, id, embedding, text, metadata); err != nil {
		log.Printf("[MEMORY] Failed to store user fact: %v",
			&StoreError{Op: "insert", Collection: CollectionUserFacts, Err: err})
		return
	}

	log.Printf("[MEMORY] Stored user fact: %s", truncateLog(text, 50))
}

// UserFacts retrieves stored facts about the user. An empty query
// returns every fact in store-defined order; otherwise the nearest
// facts to the query are returned, capped at the configured search
// limit. A non-empty category filters whichever result set was
// produced, so combining a category with a query narrows recall, never
// widens it. Failures degrade to an empty result.
func (m *Manager) UserFacts(ctx context.Context, query, category string) []string {
	var docs []Document

	if query != "" {
		embedding, err := m.embedder.Embed(ctx, query)
		if err != nil {
			log.Printf("[MEMORY] Failed to retrieve user facts: %v",
				&StoreError{Op: "embed", Collection: CollectionUserFacts, Err: err})
			return nil
		}
		results, err := m.store.Query(ctx, CollectionUserFacts, embedding, m.config.SearchLimit)
		if err != nil {
			log.Printf("[MEMORY] Failed to retrieve user facts: %v",
				&StoreError{Op: "query", Collection: CollectionUserFacts, Err: err})
			return nil
		}
		for _, r := range results {
			docs = append(docs, Document{Content: r.Content, Metadata: r.Metadata})
		}
	} else {
		var err error
		docs, err = m.store.GetAll(ctx, CollectionUserFacts)
		if err != nil {
			log.Printf("[MEMORY] Failed to retrieve user facts: %v",
				&StoreError{Op: "get_all", Collection: CollectionUserFacts, Err: err})
			return nil
		}
	}

	var facts []string
	for _, doc := range docs {
		if category != "" && doc.Metadata["category"] != category {
			continue
		}
		facts = append(facts, doc.Content)
	}
	return facts
}
