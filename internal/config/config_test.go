// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, and validation failures
package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("chunk size = %d", cfg.ChunkSize)
	}
	if cfg.SplitThreshold != 800 {
		t.Errorf("split threshold = %d", cfg.SplitThreshold)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("max attempts = %d", cfg.MaxAttempts)
	}
	if cfg.SourceLang != "sa" || cfg.TargetLang != "en" {
		t.Errorf("languages = %q -> %q", cfg.SourceLang, cfg.TargetLang)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRANTH_PROVIDER", "ollama")
	t.Setenv("GRANTH_CHUNK_SIZE", "500")
	t.Setenv("GRANTH_SPLIT_THRESHOLD", "400")
	t.Setenv("GRANTH_SOURCE_LANG", "hi")
	t.Setenv("GRANTH_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.ChunkSize != 500 || cfg.SplitThreshold != 400 {
		t.Errorf("sizes = %d/%d", cfg.ChunkSize, cfg.SplitThreshold)
	}
	if cfg.SourceLang != "hi" {
		t.Errorf("source lang = %q", cfg.SourceLang)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("GRANTH_CHUNK_SIZE", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("chunk size = %d, want default 1000", cfg.ChunkSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }, "GRANTH_PROVIDER"},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "GRANTH_CHUNK_SIZE"},
		{"threshold above budget", func(c *Config) { c.SplitThreshold = 2000 }, "GRANTH_SPLIT_THRESHOLD"},
		{"too many attempts", func(c *Config) { c.MaxAttempts = 50 }, "GRANTH_MAX_ATTEMPTS"},
		{"same languages", func(c *Config) { c.TargetLang = "sa" }, "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("loading: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if err := cfg.RequireAPIKey(); err == nil {
		t.Error("openai provider without key should error")
	}

	cfg.Provider = ProviderOllama
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("ollama provider should not need a key: %v", err)
	}
}
