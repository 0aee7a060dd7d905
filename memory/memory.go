package memory

import (
	"context"
	"time"
)

// Collection names within the vector store. The two namespaces are
// independent: conversation turns and user facts never mix.
const (
	CollectionConversations = "conversations"
	CollectionUserFacts     = "user_facts"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are immutable once
// created: the Manager appends them to the buffer and never modifies
// them afterwards.
type Turn struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata"`
}

// SearchResult is one nearest-neighbor hit from the vector store.
// Distance is the store's distance metric, ascending = more similar.
type SearchResult struct {
	Content  string
	Metadata map[string]string
	Distance float32
}

// Document is a stored record without ranking information, as returned
// by Store.GetAll.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Embedder converts text to a fixed-length vector.
// Implementations: mock (testing), onnx (local all-MiniLM-L6-v2),
// ollama (embeddings from a running Ollama daemon), cached (decorator).
//
// Embed must be deterministic for identical input within a process
// lifetime; nearest-neighbor retrieval depends on it.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Store is the vector storage backend. Records are write-once: the
// Manager never updates or deletes them.
// Implementations: chromem (embedded, persistent).
type Store interface {
	// Insert adds one record to a collection. The id must be unique
	// within the collection.
	Insert(ctx context.Context, collection, id string, embedding []float32, document string, metadata map[string]string) error

	// Query returns up to limit records nearest to the embedding,
	// ordered by ascending distance.
	Query(ctx context.Context, collection string, embedding []float32, limit int) ([]SearchResult, error)

	// GetAll returns every record in a collection. Order is
	// store-defined and not guaranteed to be chronological.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// Close releases resources.
	Close() error
}

// Config holds Manager configuration. Construct one in main and pass
// it to NewManager; there is no process-wide config state.
type Config struct {
	// Persistence toggles writing conversation turns to the vector
	// store. The in-memory buffer works either way.
	Persistence bool

	// MaxConversationHistory bounds the buffer. Once the length
	// exceeds it, the buffer is compacted to its most recent half.
	MaxConversationHistory int

	// RecencyWindow is how many trailing turns feed the recency block
	// of ContextForResponse.
	RecencyWindow int

	// RelevanceLimit caps relevance results in ContextForResponse.
	RelevanceLimit int

	// RelevanceThreshold is the maximum distance at which a retrieved
	// memory is surfaced. Calibrated to cosine distance over
	// all-MiniLM-L6-v2 vectors; re-tune it if the embedder or the
	// store's metric changes.
	RelevanceThreshold float32

	// SearchLimit is the default result cap for SearchMemories and
	// fact queries.
	SearchLimit int

	// ConversationsDir is where SaveSession writes session files.
	ConversationsDir string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Persistence:            true,
		MaxConversationHistory: 50,
		RecencyWindow:          5,
		RelevanceLimit:         3,
		RelevanceThreshold:     0.7,
		SearchLimit:            5,
		ConversationsDir:       "data/conversations",
	}
}
