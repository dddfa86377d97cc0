// ABOUTME: Chunk is the atomic unit of the segmentation-and-translation pipeline
// ABOUTME: Defines sentinel translations and degenerate-content classification
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DefaultSection is assigned to chunks assembled before any heading is seen.
const DefaultSection = "Introduction"

// MinTranslatableLength is the minimum content length (in runes, after
// trimming) below which a chunk is skipped with SentinelTooShort.
const MinTranslatableLength = 3

// Sentinel translations written for degenerate content. They are terminal:
// a sentinel makes the translation column non-null, so the chunk never
// re-enters a worklist.
const (
	SentinelEmpty    = "[empty]"
	SentinelTooShort = "[too short]"
)

// SentinelNumeric builds the sentinel for digit-only content.
func SentinelNumeric(content string) string {
	return fmt.Sprintf("[numeric: %s]", content)
}

// Chunk represents a bounded-size unit of source-language content.
// ChunkID values are dense and strictly increasing in document order.
// An empty Translation means the chunk has not been processed yet; the
// store persists it as NULL.
type Chunk struct {
	ChunkID     int       `json:"chunk_id"`
	Section     string    `json:"section"`
	Content     string    `json:"content"`
	CharCount   int       `json:"char_count"`
	Translation string    `json:"translation,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Translated reports whether the chunk has a terminal translation value
// (real translation or sentinel).
func (c *Chunk) Translated() bool {
	return c.Translation != ""
}

// ContentClass is the orchestrator's pre-translation classification of
// chunk content.
type ContentClass int

const (
	// ClassTranslatable content is routed to the translation client.
	ClassTranslatable ContentClass = iota
	// ClassEmpty content is whitespace-only; written as SentinelEmpty.
	ClassEmpty
	// ClassTooShort content has fewer than MinTranslatableLength runes.
	ClassTooShort
	// ClassNumeric content is purely digits and number punctuation.
	ClassNumeric
)

// ClassifyContent decides whether content is worth sending to the
// translation client or should be short-circuited with a sentinel.
func ClassifyContent(content string) ContentClass {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ClassEmpty
	}
	// Numeric wins over too-short so "42" reports what it is.
	if isNumeric(trimmed) {
		return ClassNumeric
	}
	if len([]rune(trimmed)) < MinTranslatableLength {
		return ClassTooShort
	}
	return ClassTranslatable
}

// isNumeric reports whether s contains only digits once spaces, dots and
// commas are removed. Verse numbers and page markers fall in this class.
func isNumeric(s string) bool {
	sawDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			sawDigit = true
		case r == ' ' || r == '.' || r == ',':
			// number punctuation, ignore
		default:
			return false
		}
	}
	return sawDigit
}
