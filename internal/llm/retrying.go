// ABOUTME: RetryingTranslator wraps a Translator with a bounded-attempt retry policy
// ABOUTME: Applies classified cooldowns and a happy-path throttle against bursty providers
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/booksllm/granth/internal/util"
)

// ErrExhausted is returned once the attempt budget is spent without a
// qualifying success. Callers must leave the chunk's translation unset so
// a later run retries it.
var ErrExhausted = errors.New("translation attempts exhausted")

// Retry policy defaults. The happy-path throttle runs before every
// attempt, including the first; classified cooldowns run between failed
// attempts and scale linearly with the attempt index.
const (
	DefaultMaxAttempts = 5

	defaultThrottleBase   = 3 * time.Second
	defaultThrottleStep   = 2 * time.Second
	defaultThrottleJitter = 2 * time.Second

	defaultRateLimitBase = 20 * time.Second
	defaultRateLimitStep = 10 * time.Second

	defaultTransientBase = 10 * time.Second
	defaultTransientStep = 5 * time.Second

	defaultOtherCooldown = 5 * time.Second

	// minSuccessLength is the shortest result accepted as a real
	// translation, in runes.
	minSuccessLength = 3
)

// SleepFunc waits for d or until the context is cancelled. Injected so
// tests can run the policy without real time passing.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryingTranslator drives a Translator through up to MaxAttempts calls,
// with differentiated waits per failure kind. A result only qualifies as
// success if it is non-empty, differs from the input, and has at least
// minSuccessLength runes; an echoed input signals a no-op translation and
// is treated as a failed attempt.
type RetryingTranslator struct {
	client      Translator
	maxAttempts int
	sleep       SleepFunc

	throttleBase   time.Duration
	throttleStep   time.Duration
	throttleJitter time.Duration
	rateLimitBase  time.Duration
	rateLimitStep  time.Duration
	transientBase  time.Duration
	transientStep  time.Duration
	otherCooldown  time.Duration
}

// RetryOption customizes a RetryingTranslator.
type RetryOption func(*RetryingTranslator)

// WithMaxAttempts overrides the attempt budget.
func WithMaxAttempts(n int) RetryOption {
	return func(r *RetryingTranslator) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithSleep injects the wait function (tests).
func WithSleep(sleep SleepFunc) RetryOption {
	return func(r *RetryingTranslator) { r.sleep = sleep }
}

// WithThrottle overrides the happy-path throttle parameters.
func WithThrottle(base, step, jitter time.Duration) RetryOption {
	return func(r *RetryingTranslator) {
		r.throttleBase = base
		r.throttleStep = step
		r.throttleJitter = jitter
	}
}

// WithCooldowns overrides the failure cooldown parameters.
func WithCooldowns(rateBase, rateStep, transientBase, transientStep, other time.Duration) RetryOption {
	return func(r *RetryingTranslator) {
		r.rateLimitBase = rateBase
		r.rateLimitStep = rateStep
		r.transientBase = transientBase
		r.transientStep = transientStep
		r.otherCooldown = other
	}
}

// NewRetryingTranslator wraps client with the default retry policy.
func NewRetryingTranslator(client Translator, opts ...RetryOption) *RetryingTranslator {
	r := &RetryingTranslator{
		client:         client,
		maxAttempts:    DefaultMaxAttempts,
		sleep:          ContextSleep,
		throttleBase:   defaultThrottleBase,
		throttleStep:   defaultThrottleStep,
		throttleJitter: defaultThrottleJitter,
		rateLimitBase:  defaultRateLimitBase,
		rateLimitStep:  defaultRateLimitStep,
		transientBase:  defaultTransientBase,
		transientStep:  defaultTransientStep,
		otherCooldown:  defaultOtherCooldown,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TranslateWithPolicy attempts to translate text until a qualifying
// success or until the attempt budget is spent, in which case the last
// provider error is wrapped in ErrExhausted. Context cancellation aborts
// any pending wait and surfaces as the context error.
func (r *RetryingTranslator) TranslateWithPolicy(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		// Throttle even the happy path; the upstream is bursty.
		throttle := util.LinearCooldown(r.throttleBase, r.throttleStep, attempt) +
			util.Jitter(r.throttleJitter)
		if err := r.sleep(ctx, throttle); err != nil {
			return "", err
		}

		result, err := r.client.Translate(ctx, trimmed)
		if err == nil {
			result = strings.TrimSpace(result)
			if qualifies(trimmed, result) {
				return result, nil
			}
			lastErr = fmt.Errorf("attempt %d: result did not qualify as a translation", attempt+1)
			continue
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err

		if attempt == r.maxAttempts-1 {
			break
		}

		var cooldown time.Duration
		switch Classify(err) {
		case FailureRateLimited:
			cooldown = util.LinearCooldown(r.rateLimitBase, r.rateLimitStep, attempt)
		case FailureTransient:
			cooldown = util.LinearCooldown(r.transientBase, r.transientStep, attempt)
		default:
			cooldown = r.otherCooldown
		}
		if err := r.sleep(ctx, cooldown); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrExhausted, r.maxAttempts, lastErr)
}

// qualifies is the quality gate on a provider result: non-empty, not an
// echo of the input, and long enough to plausibly be a translation.
func qualifies(input, result string) bool {
	if result == "" || result == input {
		return false
	}
	return utf8.RuneCountInString(result) >= minSuccessLength
}
