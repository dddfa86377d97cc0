// ABOUTME: Ollama translation client for local sequence-to-sequence models
// ABOUTME: Talks to the Ollama HTTP API so translation can run without a remote provider
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaHost is the standard local Ollama endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaConfig holds configuration for a local Ollama translation client.
type OllamaConfig struct {
	Host       string
	Model      string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// OllamaClient translates text through a locally served model. It is the
// drop-in local substitute for OpenAIClient behind the Translator
// interface.
type OllamaClient struct {
	host       string
	model      string
	sourceLang string
	targetLang string
	httpClient *http.Client
}

// NewOllamaClient creates a client for a local Ollama server.
func NewOllamaClient(cfg *OllamaConfig) (*OllamaClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = DefaultOllamaHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &OllamaClient{
		host:       host,
		model:      cfg.Model,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Translate performs one generate call against the local server.
func (c *OllamaClient) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &TranslateError{Kind: FailureOther, Err: fmt.Errorf("empty input")}
	}

	reqBody := ollamaRequest{
		Model: c.model,
		System: fmt.Sprintf("You are a translator. Translate %s text to %s. Output only the translation.",
			languageName(c.sourceLang), languageName(c.targetLang)),
		Prompt: text,
		Stream: false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &TranslateError{Kind: FailureOther, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", &TranslateError{Kind: FailureOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify(fmt.Errorf("ollama request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TranslateError{Kind: FailureTransient, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TranslateError{
			Kind: classifyStatus(resp.StatusCode),
			Err:  fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &TranslateError{Kind: FailureOther, Err: fmt.Errorf("decoding ollama response: %w", err)}
	}
	if parsed.Error != "" {
		return "", classify(fmt.Errorf("ollama: %s", parsed.Error))
	}

	return strings.TrimSpace(parsed.Response), nil
}
