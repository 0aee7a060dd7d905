// Package assistant glues the memory system to the model call: per
// turn it retrieves context, builds the prompt, streams the response
// and records the completed exchange.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/mnemo-ai/mnemo/chat"
	"github.com/mnemo-ai/mnemo/memory"
)

// maxFactsInPrompt caps the personalization block.
const maxFactsInPrompt = 5

// DefaultSystemPrompt is the assistant's default personality.
const DefaultSystemPrompt = `You are a helpful AI assistant with a great memory.
You remember previous conversations and can build relationships with users.
You're friendly, intelligent, and genuinely interested in helping.`

// Assistant runs the conversational loop. The memory manager is the
// only stateful collaborator; the chat client is a pure call.
type Assistant struct {
	memory       *memory.Manager
	client       chat.Client
	systemPrompt string
}

// New creates an Assistant. An empty systemPrompt selects the default.
func New(mem *memory.Manager, client chat.Client, systemPrompt string) *Assistant {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Assistant{
		memory:       mem,
		client:       client,
		systemPrompt: systemPrompt,
	}
}

// Memory exposes the underlying manager for front ends (facts listing,
// session saves).
func (a *Assistant) Memory() *memory.Manager {
	return a.memory
}

// Respond generates a reply to the user message. Memory context and
// known user facts are prepended to the prompt; once the full response
// is assembled, both turns are recorded. Memory writes happen only
// after the stream ends, so a model failure records nothing.
func (a *Assistant) Respond(ctx context.Context, userMessage string, onChunk func(string)) (string, error) {
	prompt := a.buildPrompt(ctx, userMessage)

	reply, err := a.client.Complete(ctx, a.systemPrompt, []chat.Message{
		{Role: "user", Content: prompt},
	}, onChunk)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}

	a.memory.AddMessage(ctx, memory.RoleUser, userMessage, nil)
	a.memory.AddMessage(ctx, memory.RoleAssistant, reply, nil)

	return reply, nil
}

// buildPrompt assembles conversation context, user facts and the
// current message into one prompt body.
func (a *Assistant) buildPrompt(ctx context.Context, userMessage string) string {
	var b strings.Builder

	if memCtx := a.memory.ContextForResponse(ctx, userMessage); memCtx != "" {
		b.WriteString(memCtx)
		b.WriteString("\n\n")
	}

	if facts := a.memory.UserFacts(ctx, "", ""); len(facts) > 0 {
		if len(facts) > maxFactsInPrompt {
			facts = facts[:maxFactsInPrompt]
		}
		b.WriteString("What I know about you:\n")
		for _, fact := range facts {
			b.WriteString("- ")
			b.WriteString(fact)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Current message: ")
	b.WriteString(userMessage)
	b.WriteString("\n\nPlease respond naturally and conversationally. Reference relevant information from our conversation history when appropriate.")

	return b.String()
}

// Summary describes the current session for front-end display.
func (a *Assistant) Summary() string {
	turns := a.memory.Turns()
	if len(turns) == 0 {
		return "No conversation yet."
	}
	return fmt.Sprintf("Conversation started at %s. %d messages exchanged.",
		turns[0].Timestamp.Format("2006-01-02 15:04:05"), len(turns))
}

// SaveSession saves the current session and returns the file path.
func (a *Assistant) SaveSession() (string, error) {
	return a.memory.SaveSession("")
}
