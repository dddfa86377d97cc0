// ABOUTME: Tests for sentence-boundary splitting of oversized text
// ABOUTME: Covers danda boundaries, the boundary floor, and short-fragment dropping
package core

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitter_CutsAtDandaAfterFloor(t *testing.T) {
	verse := strings.Repeat("अ", 120) + "।"
	text := verse + verse + verse
	s := NewSplitter()

	fragments := s.Split(text)
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}
	for i, f := range fragments {
		if !strings.HasSuffix(f, "।") {
			t.Errorf("fragment %d should end with danda: %q", i, f)
		}
	}
}

func TestSplitter_BoundaryFloorPreventsTinyFragments(t *testing.T) {
	// Sentence enders every 10 runes; with a 100-rune floor the cuts are
	// far fewer than the ender count.
	text := strings.Repeat(strings.Repeat("a", 9)+".", 30)
	s := NewSplitter()

	fragments := s.Split(text)
	for i, f := range fragments {
		if n := utf8.RuneCountInString(f); n <= DefaultBoundaryFloor && i < len(fragments)-1 {
			t.Errorf("fragment %d has %d runes, should exceed the floor", i, n)
		}
	}
	if len(fragments) >= 30 {
		t.Errorf("floor should coalesce sentences, got %d fragments", len(fragments))
	}
}

func TestSplitter_TrailingPartialKept(t *testing.T) {
	text := strings.Repeat("x", 120) + "। trailing words without ender"
	s := NewSplitter()

	fragments := s.Split(text)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if fragments[1] != "trailing words without ender" {
		t.Errorf("trailing fragment = %q", fragments[1])
	}
}

func TestSplitter_DropsShortFragments(t *testing.T) {
	text := strings.Repeat("x", 120) + "। ok।"
	s := NewSplitter()

	fragments := s.Split(text)
	if len(fragments) != 1 {
		t.Fatalf("fragment under the minimum should be dropped, got %d fragments", len(fragments))
	}
}

func TestSplitter_ShortTextSingleFragment(t *testing.T) {
	s := NewSplitter()
	fragments := s.Split("A short sentence. Another one.")
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0] != "A short sentence. Another one." {
		t.Errorf("fragment = %q", fragments[0])
	}
}

func TestSplitter_EmptyInput(t *testing.T) {
	s := NewSplitter()
	if fragments := s.Split(""); len(fragments) != 0 {
		t.Errorf("expected no fragments, got %v", fragments)
	}
}

func TestSplitter_NewlineIsBoundary(t *testing.T) {
	text := strings.Repeat("a", 110) + "\n" + strings.Repeat("b", 110)
	s := NewSplitter()

	fragments := s.Split(text)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
}
