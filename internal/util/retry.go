// ABOUTME: Retry timing utilities for calls to external translation and embedding APIs
// ABOUTME: Provides exponential backoff and linear attempt-scaled cooldowns, both with jitter
package util

import (
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// Jitter: -25% to +25%
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// LinearCooldown returns base + attempt*step. The translation retry policy
// scales waits linearly rather than exponentially so a long run does not
// stall for minutes on a single stubborn chunk.
func LinearCooldown(base, step time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base + time.Duration(attempt)*step
}

// Jitter returns a random duration in [0, max). Applied to happy-path
// throttle delays so requests to a bursty upstream do not synchronise.
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}
