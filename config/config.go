// Package config loads application configuration from a YAML file and
// MNEMO_* environment variables into an explicit struct built once at
// startup. Nothing in here is global: main constructs the Config and
// hands it down.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the main application configuration.
type Config struct {
	Model  ModelConfig  `yaml:"model" mapstructure:"model"`
	Memory MemoryConfig `yaml:"memory" mapstructure:"memory"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// DataDir is where persistent state lives (vector database,
	// saved sessions).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// ModelConfig selects and tunes the chat model.
type ModelConfig struct {
	// Provider is "ollama" or "anthropic".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Name is the model identifier.
	Name string `yaml:"name" mapstructure:"name"`

	// APIKey is required for the anthropic provider. Set it via
	// MNEMO_MODEL_API_KEY or ANTHROPIC_API_KEY rather than the file.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	Temperature  float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens    int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt" mapstructure:"system_prompt"`
}

// MemoryConfig tunes the memory subsystem.
type MemoryConfig struct {
	// Embedder is "ollama", "onnx" or "mock".
	Embedder string `yaml:"embedder" mapstructure:"embedder"`

	// EmbeddingModel names the sentence-embedding model.
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`

	// Dimensions is the embedding vector size.
	Dimensions int `yaml:"dimensions" mapstructure:"dimensions"`

	// Persistence toggles long-term storage of conversation turns.
	Persistence bool `yaml:"persistence" mapstructure:"persistence"`

	MaxConversationHistory int     `yaml:"max_conversation_history" mapstructure:"max_conversation_history"`
	RecencyWindow          int     `yaml:"recency_window" mapstructure:"recency_window"`
	RelevanceLimit         int     `yaml:"relevance_limit" mapstructure:"relevance_limit"`
	RelevanceThreshold     float64 `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	SearchLimit            int     `yaml:"search_limit" mapstructure:"search_limit"`

	// CacheSize caps the embedding cache entry count.
	CacheSize int64 `yaml:"cache_size" mapstructure:"cache_size"`

	// ONNX embedder paths, used when Embedder is "onnx".
	ONNXModelPath     string `yaml:"onnx_model_path" mapstructure:"onnx_model_path"`
	ONNXTokenizerPath string `yaml:"onnx_tokenizer_path" mapstructure:"onnx_tokenizer_path"`
}

// ServerConfig tunes the websocket front end.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "ollama",
			Name:        "llama3.3",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Memory: MemoryConfig{
			Embedder:               "ollama",
			EmbeddingModel:         "all-minilm",
			Dimensions:             384,
			Persistence:            true,
			MaxConversationHistory: 50,
			RecencyWindow:          5,
			RelevanceLimit:         3,
			RelevanceThreshold:     0.7,
			SearchLimit:            5,
			CacheSize:              4096,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		DataDir: "data",
	}
}

// Load reads config.yaml from the working directory or
// ~/.config/mnemo, applies MNEMO_* environment overrides, and
// validates the result. A missing file is not an error; defaults
// apply.
func Load() (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "mnemo"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "mnemo"))
	}

	v.SetEnvPrefix("MNEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every config key with viper. AutomaticEnv
// only consults the environment for keys viper knows about, so without
// this, MNEMO_* overrides are ignored when no config file exists.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("model.provider", cfg.Model.Provider)
	v.SetDefault("model.name", cfg.Model.Name)
	v.SetDefault("model.api_key", cfg.Model.APIKey)
	v.SetDefault("model.temperature", cfg.Model.Temperature)
	v.SetDefault("model.max_tokens", cfg.Model.MaxTokens)
	v.SetDefault("model.system_prompt", cfg.Model.SystemPrompt)

	v.SetDefault("memory.embedder", cfg.Memory.Embedder)
	v.SetDefault("memory.embedding_model", cfg.Memory.EmbeddingModel)
	v.SetDefault("memory.dimensions", cfg.Memory.Dimensions)
	v.SetDefault("memory.persistence", cfg.Memory.Persistence)
	v.SetDefault("memory.max_conversation_history", cfg.Memory.MaxConversationHistory)
	v.SetDefault("memory.recency_window", cfg.Memory.RecencyWindow)
	v.SetDefault("memory.relevance_limit", cfg.Memory.RelevanceLimit)
	v.SetDefault("memory.relevance_threshold", cfg.Memory.RelevanceThreshold)
	v.SetDefault("memory.search_limit", cfg.Memory.SearchLimit)
	v.SetDefault("memory.cache_size", cfg.Memory.CacheSize)
	v.SetDefault("memory.onnx_model_path", cfg.Memory.ONNXModelPath)
	v.SetDefault("memory.onnx_tokenizer_path", cfg.Memory.ONNXTokenizerPath)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("data_dir", cfg.DataDir)
}

// Validate checks the configuration for errors and fills obviously
// broken numeric fields with defaults.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "ollama":
	case "anthropic":
		if c.Model.APIKey == "" {
			return fmt.Errorf("config: provider anthropic requires an api key")
		}
	default:
		return fmt.Errorf("config: invalid model provider %q (must be ollama or anthropic)", c.Model.Provider)
	}

	switch c.Memory.Embedder {
	case "ollama", "onnx", "mock":
	default:
		return fmt.Errorf("config: invalid embedder %q (must be ollama, onnx or mock)", c.Memory.Embedder)
	}
	if c.Memory.Embedder == "onnx" && c.Memory.ONNXModelPath == "" {
		return fmt.Errorf("config: embedder onnx requires onnx_model_path")
	}

	if c.Memory.MaxConversationHistory < 1 {
		c.Memory.MaxConversationHistory = 50
	}
	if c.Memory.RecencyWindow < 1 {
		c.Memory.RecencyWindow = 5
	}
	if c.Memory.RelevanceLimit < 1 {
		c.Memory.RelevanceLimit = 3
	}
	if c.Memory.SearchLimit < 1 {
		c.Memory.SearchLimit = 5
	}
	if c.Memory.Dimensions < 1 {
		c.Memory.Dimensions = 384
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	return nil
}

// ConversationsDir is where session files are written.
func (c *Config) ConversationsDir() string {
	return filepath.Join(c.DataDir, "conversations")
}

// VectorDBDir is the chromem database location.
func (c *Config) VectorDBDir() string {
	return filepath.Join(c.DataDir, "chroma")
}

// EnsureDirectories creates the data directories if they don't exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.ConversationsDir(), c.VectorDBDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
