package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager owns one session's conversation buffer and orchestrates the
// embedder and the vector store around it: it decides what gets
// persisted, what context is retrieved for a new turn, and when the
// buffer is compacted.
//
// A Manager is bound to a single logical session and is not safe for
// concurrent use. A multi-session deployment runs one Manager per
// session.
type Manager struct {
	store    Store
	embedder Embedder
	config   *Config

	buffer []Turn
}

// NewManager creates a Manager. A nil config selects DefaultConfig.
func NewManager(store Store, embedder Embedder, config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		store:    store,
		embedder: embedder,
		config:   config,
	}
}

// AddMessage appends a turn to the conversation buffer and, when
// persistence is enabled, writes it to the conversations collection.
// Store and embedder failures are logged and swallowed: a memory
// outage degrades to "no long-term recall", it never aborts the
// caller's turn. User turns additionally run the fact-extraction
// trigger, and the buffer is compacted once it grows past the
// configured maximum.
func (m *Manager) AddMessage(ctx context.Context, role Role, content string, metadata map[string]string) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	turn := Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
	m.buffer = append(m.buffer, turn)

	if m.config.Persistence {
		if err := m.persistTurn(ctx, turn); err != nil {
			log.Printf("[MEMORY] Failed to persist turn: %v", err)
		}
	}

	if role == RoleUser {
		m.extractUserFact(ctx, content)
	}

	if len(m.buffer) > m.config.MaxConversationHistory {
		m.compact()
	}
}

// persistTurn embeds the role-prefixed turn text and inserts it into
// the conversations collection.
func (m *Manager) persistTurn(ctx context.Context, turn Turn) error {
	document := fmt.Sprintf("%s: %s", turn.Role, turn.Content)

	embedding, err := m.embedder.Embed(ctx, document)
	if err != nil {
		return &StoreError{Op: "embed", Collection: CollectionConversations, Err: err}
	}

	metadata := make(map[string]string, len(turn.Metadata)+2)
	for k, v := range turn.Metadata {
		metadata[k] = v
	}
	metadata["role"] = string(turn.Role)
	metadata["timestamp"] = turn.Timestamp.Format(time.RFC3339)

	id := "msg_" + uuid.NewString()
	if err := m.store.Insert(ctx, CollectionConversations, id, embedding, document, metadata); err != nil {
		return &StoreError{Op: "insert", Collection: CollectionConversations, Err: err}
	}
	return nil
}

// SearchMemories finds stored conversation turns semantically close to
// the query, ordered by ascending distance. Any failure is logged and
// degrades to an empty result.
func (m *Manager) SearchMemories(ctx context.Context, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = m.config.SearchLimit
	}

	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[MEMORY] Failed to embed search query %q: %v",
			truncateLog(query, 50), &StoreError{Op: "embed", Collection: CollectionConversations, Err: err})
		return nil
	}

	results, err := m.store.Query(ctx, CollectionConversations, embedding, limit)
	if err != nil {
		log.Printf("[MEMORY] Memory search failed: %v",
			&StoreError{Op: "query", Collection: CollectionConversations, Err: err})
		return nil
	}

	// Stores are expected to rank results already; sort anyway so the
	// ordering contract holds for every backend.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}

// ContextForResponse composes the context text injected into the next
// prompt: the last RecencyWindow turns of the buffer, then the
// relevance hits for the message whose distance falls strictly below
// the threshold. Results at or above the threshold are dropped, not
// de-prioritized. This is the sole read path feeding prompt
// construction and performs no mutation.
func (m *Manager) ContextForResponse(ctx context.Context, message string) string {
	var parts []string

	recent := m.buffer
	if len(recent) > m.config.RecencyWindow {
		recent = recent[len(recent)-m.config.RecencyWindow:]
	}
	if len(recent) > 0 {
		parts = append(parts, "Recent conversation:")
		for _, turn := range recent {
			parts = append(parts, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
		}
	}

	var relevant []string
	for _, result := range m.SearchMemories(ctx, message, m.config.RelevanceLimit) {
		if result.Distance < m.config.RelevanceThreshold {
			relevant = append(relevant, "- "+result.Content)
		}
	}
	if len(relevant) > 0 {
		parts = append(parts, "", "Relevant past conversations:")
		parts = append(parts, relevant...)
	}

	return strings.Join(parts, "\n")
}

// compact replaces the buffer with its most recent half. Lossy
// truncation: older turns survive only in the vector store.
func (m *Manager) compact() {
	keep := m.config.MaxConversationHistory / 2
	if keep < 0 {
		keep = 0
	}
	if len(m.buffer) <= keep {
		return
	}
	tail := m.buffer[len(m.buffer)-keep:]
	m.buffer = append(make([]Turn, 0, keep), tail...)
	log.Printf("[MEMORY] Compacted conversation buffer to %d most recent turns", len(m.buffer))
}

// Turns returns a copy of the current conversation buffer in
// chronological order.
func (m *Manager) Turns() []Turn {
	out := make([]Turn, len(m.buffer))
	copy(out, m.buffer)
	return out
}

// Len returns the current buffer length.
func (m *Manager) Len() int {
	return len(m.buffer)
}

// truncateLog shortens text for log lines.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
