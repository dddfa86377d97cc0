// ABOUTME: Translator capability interface and its OpenAI chat implementation
// ABOUTME: One best-effort call per invocation; retry logic lives in RetryingTranslator
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultTranslateModel is the default chat model for translation.
	DefaultTranslateModel = "gpt-4o-mini"
	// DefaultRequestTimeout bounds a single provider call.
	DefaultRequestTimeout = 60 * time.Second
)

// Translator is the single-call translation capability. Implementations
// perform exactly one provider call and classify failures via
// TranslateError; they never retry.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// languageNames maps ISO codes to the names used in prompts. Unknown
// codes are passed through as-is.
var languageNames = map[string]string{
	"sa": "Sanskrit",
	"hi": "Hindi",
	"en": "English",
	"bg": "Bulgarian",
	"de": "German",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// ClientConfig holds configuration for the OpenAI translation client.
type ClientConfig struct {
	APIKey     string
	Model      string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// OpenAIClient translates text through an OpenAI chat completion with a
// fixed source/target language pair.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	sourceLang string
	targetLang string
	timeout    time.Duration
}

// NewOpenAIClient creates a translation client for the configured
// language pair.
func NewOpenAIClient(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultTranslateModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &OpenAIClient{
		client:     openai.NewClient(cfg.APIKey),
		model:      model,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		timeout:    timeout,
	}, nil
}

// Translate performs one chat completion call. Empty input is rejected
// before any network I/O.
func (c *OpenAIClient) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &TranslateError{Kind: FailureOther, Err: fmt.Errorf("empty input")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Translate the following %s text to %s. Respond with only the translation, nothing else.\n\n%s",
		languageName(c.sourceLang), languageName(c.targetLang), text)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", classify(fmt.Errorf("OpenAI API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", &TranslateError{Kind: FailureOther, Err: fmt.Errorf("no translation returned")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
