// Command mnemo runs the assistant, either as a terminal chat loop or
// as a websocket server with -serve.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mnemo-ai/mnemo/assistant"
	"github.com/mnemo-ai/mnemo/chat"
	"github.com/mnemo-ai/mnemo/config"
	"github.com/mnemo-ai/mnemo/memory"
	"github.com/mnemo-ai/mnemo/memory/embedder/cached"
	"github.com/mnemo-ai/mnemo/memory/embedder/mock"
	ollamaembed "github.com/mnemo-ai/mnemo/memory/embedder/ollama"
	"github.com/mnemo-ai/mnemo/memory/store/chromem"
	"github.com/mnemo-ai/mnemo/server"
)

func main() {
	serve := flag.Bool("serve", false, "run the websocket server instead of the terminal chat")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to set up data directories: %v", err)
	}

	a, err := buildAssistant(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *serve {
		srv := server.New(a)
		if err := srv.Run(cfg.Server.Addr); err != nil {
			log.Fatal(err)
		}
		return
	}

	runTerminal(a)
}

func buildAssistant(cfg *config.Config) (*assistant.Assistant, error) {
	store, err := chromem.New(chromem.Config{
		Path:       cfg.VectorDBDir(),
		Dimensions: cfg.Memory.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("create vector store: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	embedder, err = cached.New(embedder, cfg.Memory.CacheSize)
	if err != nil {
		return nil, err
	}

	mem := memory.NewManager(store, embedder, &memory.Config{
		Persistence:            cfg.Memory.Persistence,
		MaxConversationHistory: cfg.Memory.MaxConversationHistory,
		RecencyWindow:          cfg.Memory.RecencyWindow,
		RelevanceLimit:         cfg.Memory.RelevanceLimit,
		RelevanceThreshold:     float32(cfg.Memory.RelevanceThreshold),
		SearchLimit:            cfg.Memory.SearchLimit,
		ConversationsDir:       cfg.ConversationsDir(),
	})
	log.Printf("[MAIN] Memory system ready (store=%s embedder=%s)", cfg.VectorDBDir(), cfg.Memory.Embedder)

	client, err := buildChatClient(cfg)
	if err != nil {
		return nil, err
	}

	return assistant.New(mem, client, cfg.Model.SystemPrompt), nil
}

func buildEmbedder(cfg *config.Config) (memory.Embedder, error) {
	switch cfg.Memory.Embedder {
	case "ollama":
		return ollamaembed.New(ollamaembed.Config{
			Model:      cfg.Memory.EmbeddingModel,
			Dimensions: cfg.Memory.Dimensions,
		})
	case "onnx":
		return newONNXEmbedder(cfg)
	case "mock":
		return mock.New(cfg.Memory.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Memory.Embedder)
	}
}

func buildChatClient(cfg *config.Config) (chat.Client, error) {
	switch cfg.Model.Provider {
	case "anthropic":
		return chat.NewAnthropicClient(chat.AnthropicConfig{
			APIKey:    cfg.Model.APIKey,
			Model:     cfg.Model.Name,
			MaxTokens: cfg.Model.MaxTokens,
		})
	case "ollama":
		return chat.NewOllamaClient(chat.OllamaConfig{
			Model:       cfg.Model.Name,
			Temperature: cfg.Model.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

func runTerminal(a *assistant.Assistant) {
	ctx := context.Background()

	fmt.Println("mnemo - assistant with memory")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Type 'quit' to exit, 'save' to save the session, 'facts' to list stored facts")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("\nyou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit":
			if path, err := a.SaveSession(); err != nil {
				log.Printf("Failed to save session: %v", err)
			} else {
				fmt.Printf("Session saved to %s. Goodbye!\n", path)
			}
			return
		case "save":
			path, err := a.SaveSession()
			if err != nil {
				log.Printf("Failed to save session: %v", err)
				continue
			}
			fmt.Printf("Session saved to %s\n", path)
			continue
		case "facts":
			facts := a.Memory().UserFacts(ctx, "", "")
			if len(facts) == 0 {
				fmt.Println("No facts stored yet.")
				continue
			}
			fmt.Println("What I know about you:")
			for _, fact := range facts {
				fmt.Printf("  - %s\n", fact)
			}
			continue
		}

		fmt.Print("assistant: ")
		_, err := a.Respond(ctx, input, func(chunk string) {
			fmt.Print(chunk)
		})
		fmt.Println()
		if err != nil {
			log.Printf("Failed to generate response: %v", err)
		}
	}

	if _, err := a.SaveSession(); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
}
