// Package chromem adapts chromem-go, a pure Go embedded vector
// database, to the memory.Store interface.
package chromem

import (
	"context"
	"fmt"
	"log"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemo-ai/mnemo/memory"
)

// Config configures the store.
type Config struct {
	// Path is the on-disk location of the database. Empty means
	// in-memory only (useful for tests); otherwise collections
	// persist across process restarts.
	Path string

	// Compress enables gzip compression of persisted records.
	Compress bool

	// Dimensions is the embedding vector size (default 384, matching
	// all-MiniLM-L6-v2). GetAll needs it to build its probe vector.
	Dimensions int
}

// Store wraps a chromem-go database. Collections are created lazily on
// first use and cached; the map is guarded because the store is shared
// infrastructure even when each Manager is single-session.
type Store struct {
	db   *chromem.DB
	dims int

	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// New creates a chromem-backed store.
func New(cfg Config) (*Store, error) {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}

	var db *chromem.DB
	var err error
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}

	return &Store{
		db:          db,
		dims:        cfg.Dimensions,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[name]; ok {
		return col, nil
	}

	// Embeddings are supplied by the caller, and the default cosine
	// distance matches what the relevance threshold is tuned for.
	col, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", name, err)
	}
	s.collections[name] = col
	return col, nil
}

// Insert adds one record to a collection.
func (s *Store) Insert(ctx context.Context, collection, id string, embedding []float32, document string, metadata map[string]string) error {
	col, err := s.collection(collection)
	if err != nil {
		return err
	}

	err = col.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   document,
		Embedding: embedding,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query returns up to limit records nearest to the embedding, ordered
// by ascending cosine distance.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, limit int) ([]memory.SearchResult, error) {
	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults larger than the collection.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	out := make([]memory.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, memory.SearchResult{
			Content:  r.Content,
			Metadata: r.Metadata,
			// chromem reports cosine similarity, higher = closer.
			Distance: 1 - r.Similarity,
		})
	}
	return out, nil
}

// GetAll returns every record in a collection. chromem-go has no
// enumeration API, so this queries with a fixed unit probe vector and
// nResults equal to the collection size; the resulting order follows
// similarity to the probe, which callers must treat as arbitrary.
func (s *Store) GetAll(ctx context.Context, collection string) ([]memory.Document, error) {
	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, s.dims)
	probe[0] = 1

	results, err := col.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	out := make([]memory.Document, 0, len(results))
	for _, r := range results {
		out = append(out, memory.Document{
			Content:  r.Content,
			Metadata: r.Metadata,
		})
	}
	return out, nil
}

// Close releases resources. chromem persists each write as it happens,
// so there is nothing to flush.
func (s *Store) Close() error {
	log.Printf("[CHROMEM] Store closed")
	return nil
}
