// ABOUTME: OpenAI embedding client for chunk content and search queries
// ABOUTME: Bounded retries with exponential backoff, exactly like the translation side
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/booksllm/granth/internal/util"
)

// DefaultEmbeddingModel is the default model for embeddings.
const DefaultEmbeddingModel = openai.SmallEmbedding3

// EmbeddingDimension is the vector dimension produced by
// text-embedding-3-small.
const EmbeddingDimension = 1536

// EmbeddingConfig holds configuration for the embedding client.
type EmbeddingConfig struct {
	APIKey     string
	Model      openai.EmbeddingModel
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// EmbeddingClient wraps the OpenAI embeddings API with retry logic.
type EmbeddingClient struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewEmbeddingClient creates an embedding client.
func NewEmbeddingClient(cfg *EmbeddingConfig) (*EmbeddingClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &EmbeddingClient{
		client:     openai.NewClient(cfg.APIKey),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		timeout:    timeout,
	}, nil
}

// GenerateEmbedding generates an embedding vector for text.
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.model,
		})
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}
