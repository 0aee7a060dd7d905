package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/ollama/ollama/api"
)

// OllamaConfig configures the Ollama-backed client.
type OllamaConfig struct {
	// Model is the model name (default "llama3.3").
	Model string

	// BaseURL is the daemon address. Empty falls back to OLLAMA_HOST
	// or http://localhost:11434.
	BaseURL string

	// Temperature is the sampling temperature.
	Temperature float64
}

// OllamaClient implements Client against a local Ollama daemon.
type OllamaClient struct {
	client      *api.Client
	model       string
	temperature float64
}

// NewOllamaClient creates an Ollama-backed chat client.
func NewOllamaClient(cfg OllamaConfig) (*OllamaClient, error) {
	if cfg.Model == "" {
		cfg.Model = "llama3.3"
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

	return &OllamaClient{
		client:      api.NewClient(uri, http.DefaultClient),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the conversation and returns the response text,
// streaming chunks through onChunk when provided.
func (c *OllamaClient) Complete(ctx context.Context, system string, messages []Message, onChunk func(string)) (string, error) {
	var apiMsgs []api.Message
	if system != "" {
		apiMsgs = append(apiMsgs, api.Message{Role: "system", Content: system})
	}
	for _, m := range messages {
		apiMsgs = append(apiMsgs, api.Message{Role: m.Role, Content: m.Content})
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: apiMsgs,
	}
	if c.temperature > 0 {
		req.Options = map[string]interface{}{"temperature": c.temperature}
	}

	var text string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			text += resp.Message.Content
			if onChunk != nil {
				onChunk(resp.Message.Content)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return text, nil
}
