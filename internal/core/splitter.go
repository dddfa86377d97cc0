// ABOUTME: Splitter decomposes oversized text into sentence-bounded fragments
// ABOUTME: Recognizes Devanagari dandas plus Latin sentence enders and newlines
package core

import (
	"strings"
	"unicode/utf8"
)

// Splitter configuration defaults. The boundary floor prevents pathological
// tiny fragments at tightly spaced punctuation; the fragment floor drops
// leftovers too short to be worth a translation call.
const (
	DefaultBoundaryFloor = 100
	DefaultMinFragment   = 5
)

// sentenceEnders are the runes recognized as sentence boundaries. The
// danda (।) and double danda (॥) close Devanagari verses; the Latin set
// keeps the splitter usable for non-Indic sources.
var sentenceEnders = map[rune]bool{
	'।': true, '॥': true, '\n': true,
	'.': true, '?': true, '!': true,
}

// Splitter splits text at sentence boundaries once a fragment has reached
// BoundaryFloor runes. Fragments shorter than MinFragment runes after
// trimming are dropped.
type Splitter struct {
	BoundaryFloor int
	MinFragment   int
}

// NewSplitter returns a Splitter with default floors.
func NewSplitter() *Splitter {
	return &Splitter{
		BoundaryFloor: DefaultBoundaryFloor,
		MinFragment:   DefaultMinFragment,
	}
}

// Split scans text rune by rune and cuts immediately after a sentence
// ender, provided the accumulated fragment already exceeds the boundary
// floor. Any trailing partial fragment is kept. The original text is
// recoverable only up to dropped short fragments; callers use this for
// translation, not round-tripping.
func (s *Splitter) Split(text string) []string {
	var fragments []string
	var current strings.Builder
	curLen := 0

	for _, r := range text {
		current.WriteRune(r)
		curLen++
		if sentenceEnders[r] && curLen > s.BoundaryFloor {
			s.append(&fragments, current.String())
			current.Reset()
			curLen = 0
		}
	}
	if curLen > 0 {
		s.append(&fragments, current.String())
	}

	return fragments
}

func (s *Splitter) append(fragments *[]string, fragment string) {
	fragment = strings.TrimSpace(fragment)
	if utf8.RuneCountInString(fragment) < s.MinFragment {
		return
	}
	*fragments = append(*fragments, fragment)
}
