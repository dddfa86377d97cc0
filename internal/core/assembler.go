// ABOUTME: Assembler turns a stream of heading/paragraph events into bounded chunks
// ABOUTME: Chunks carry the section heading active at seal time and dense 1-based IDs
package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/booksllm/granth/internal/models"
)

// DefaultChunkSize is the maximum chunk size in runes used when no
// explicit budget is configured.
const DefaultChunkSize = 1000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Assembler accumulates paragraph text into chunks of at most maxSize
// runes. It implements dtbook.EventHandler, so it can be fed directly from
// the parser. A single paragraph longer than the budget becomes its own
// oversized chunk; the budget only governs concatenation, never truncation.
//
// A sealed chunk is tagged with the section heading active at seal time,
// i.e. the most recent heading seen before the paragraph that tripped the
// budget.
type Assembler struct {
	maxSize int
	section string
	buffer  strings.Builder
	bufLen  int // rune length of buffer
	chunks  []models.Chunk
	nextID  int
}

// NewAssembler creates an Assembler with the given rune budget per chunk.
// A non-positive budget falls back to DefaultChunkSize.
func NewAssembler(maxSize int) *Assembler {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	return &Assembler{
		maxSize: maxSize,
		section: models.DefaultSection,
		nextID:  1,
	}
}

// Heading updates the current section cursor. Empty or whitespace-only
// headings are ignored. Headings never flush the buffer.
func (a *Assembler) Heading(text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		a.section = text
	}
}

// Paragraph normalizes text and either appends it to the running buffer or
// seals the buffer first when appending would exceed the budget.
func (a *Assembler) Paragraph(text string) {
	text = NormalizeWhitespace(text)
	if text == "" {
		return
	}

	textLen := utf8.RuneCountInString(text)
	if a.bufLen+textLen+1 > a.maxSize && a.bufLen > 0 {
		a.seal()
		a.buffer.WriteString(text)
		a.bufLen = textLen
		return
	}

	if a.bufLen > 0 {
		a.buffer.WriteString("\n")
		a.bufLen++
	}
	a.buffer.WriteString(text)
	a.bufLen += textLen
}

// Finish seals any remaining buffered text and returns all chunks in
// document order. The Assembler must not be reused afterwards.
func (a *Assembler) Finish() []models.Chunk {
	if a.bufLen > 0 {
		a.seal()
	}
	return a.chunks
}

func (a *Assembler) seal() {
	content := strings.TrimSpace(a.buffer.String())
	if content == "" {
		a.buffer.Reset()
		a.bufLen = 0
		return
	}

	a.chunks = append(a.chunks, models.Chunk{
		ChunkID:   a.nextID,
		Section:   a.section,
		Content:   content,
		CharCount: utf8.RuneCountInString(content),
	})
	a.nextID++
	a.buffer.Reset()
	a.bufLen = 0
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
