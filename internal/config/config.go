// ABOUTME: Centralized configuration for the granth translation pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/booksllm/granth/internal/storage/sqlite"
)

// Translation providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all configuration for the translation pipeline
type Config struct {
	// Storage settings
	DBPath string

	// Provider settings
	Provider       string
	OpenAIKey      string
	TranslateModel string
	EmbeddingModel string
	OllamaHost     string
	OllamaModel    string
	Timeout        time.Duration

	// Language settings
	SourceLang string
	TargetLang string

	// Pipeline settings
	ChunkSize      int
	SplitThreshold int
	MaxAttempts    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:         getEnv("GRANTH_DB", sqlite.DefaultDBPath()),
		Provider:       getEnv("GRANTH_PROVIDER", ProviderOpenAI),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		TranslateModel: getEnv("GRANTH_TRANSLATE_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("GRANTH_EMBEDDING_MODEL", "text-embedding-3-small"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("GRANTH_OLLAMA_MODEL", "aya:8b"),
		Timeout:        getEnvDuration("GRANTH_TIMEOUT", 60*time.Second),
		SourceLang:     getEnv("GRANTH_SOURCE_LANG", "sa"),
		TargetLang:     getEnv("GRANTH_TARGET_LANG", "en"),
		ChunkSize:      getEnvInt("GRANTH_CHUNK_SIZE", 1000),
		SplitThreshold: getEnvInt("GRANTH_SPLIT_THRESHOLD", 800),
		MaxAttempts:    getEnvInt("GRANTH_MAX_ATTEMPTS", 5),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderOllama {
		return fmt.Errorf("GRANTH_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, c.Provider)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("GRANTH_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.SplitThreshold <= 0 || c.SplitThreshold > c.ChunkSize {
		return fmt.Errorf("GRANTH_SPLIT_THRESHOLD must be 1-%d, got %d", c.ChunkSize, c.SplitThreshold)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("GRANTH_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.SourceLang == c.TargetLang {
		return fmt.Errorf("source and target language are both %q", c.SourceLang)
	}
	return nil
}

// RequireAPIKey errors when the configured provider needs a key that is
// not set. Ollama runs locally and needs none.
func (c *Config) RequireAPIKey() error {
	if c.Provider == ProviderOpenAI && c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
