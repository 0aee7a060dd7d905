// Package chat holds the thin model-call boundary. The memory core
// never sees these types; the assistant hands it complete
// (role, content) pairs after a response finishes streaming.
package chat

import "context"

// Message is one chat message in provider-neutral form.
type Message struct {
	Role    string
	Content string
}

// Client completes a chat exchange against an external model.
// Implementations: Anthropic (Claude API), Ollama (local daemon).
type Client interface {
	// Complete sends the messages under the system prompt and returns
	// the full response text. When onChunk is non-nil it receives
	// response text incrementally as it streams.
	Complete(ctx context.Context, system string, messages []Message, onChunk func(string)) (string, error)
}
