// Package ollama generates embeddings through a running Ollama
// daemon, so deployments that already serve the chat model locally
// need no separate embedding runtime.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/ollama/ollama/api"
)

// Config configures the Ollama embedder.
type Config struct {
	// Model is the embedding model name (default "all-minilm").
	Model string

	// BaseURL is the daemon address. Empty falls back to OLLAMA_HOST
	// or http://localhost:11434.
	BaseURL string

	// Dimensions is the embedding vector size (default 384 for
	// all-minilm).
	Dimensions int
}

// Embedder calls the Ollama embeddings API.
type Embedder struct {
	client     *api.Client
	model      string
	dimensions int
}

// New creates an Ollama embedder.
func New(cfg Config) (*Embedder, error) {
	if cfg.Model == "" {
		cfg.Model = "all-minilm"
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	uri, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	return &Embedder{
		client:     api.NewClient(uri, http.DefaultClient),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed converts text to an embedding vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}
