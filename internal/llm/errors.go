// ABOUTME: Failure taxonomy for translation calls
// ABOUTME: Classifies provider errors as rate-limited, transient, or other for the retry policy
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FailureKind buckets a translation failure for differentiated backoff.
type FailureKind int

const (
	// FailureOther covers everything that is neither throttling nor an
	// obvious connectivity problem.
	FailureOther FailureKind = iota
	// FailureRateLimited means the provider rejected the call for quota
	// or throughput reasons (HTTP 429 and friends).
	FailureRateLimited
	// FailureTransient means a connectivity or upstream availability
	// problem likely to clear on its own (timeouts, 5xx).
	FailureTransient
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimited:
		return "rate-limited"
	case FailureTransient:
		return "transient"
	default:
		return "other"
	}
}

// TranslateError wraps a provider error with its classified kind.
type TranslateError struct {
	Kind FailureKind
	Err  error
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("translation failed (%s): %v", e.Kind, e.Err)
}

func (e *TranslateError) Unwrap() error {
	return e.Err
}

// classify wraps err as a TranslateError, assigning a kind from the
// provider error shape. Already-classified errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var te *TranslateError
	if errors.As(err, &te) {
		return err
	}

	return &TranslateError{Kind: Classify(err), Err: err}
}

// Classify assigns a FailureKind to an arbitrary provider error.
// Recognizes go-openai API errors by status code, net errors, and falls
// back to message sniffing for providers that only surface strings.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureOther
	}

	var te *TranslateError
	if errors.As(err, &te) {
		return te.Kind
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureTransient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransient
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "too many requests"), strings.Contains(msg, "rate limit"):
		return FailureRateLimited
	case strings.Contains(msg, "connection"), strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporarily unavailable"):
		return FailureTransient
	default:
		return FailureOther
	}
}

func classifyStatus(status int) FailureKind {
	switch {
	case status == http.StatusTooManyRequests:
		return FailureRateLimited
	case status == http.StatusRequestTimeout, status >= 500:
		return FailureTransient
	default:
		return FailureOther
	}
}
