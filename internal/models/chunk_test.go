// ABOUTME: Tests for chunk content classification and sentinel values
// ABOUTME: Verifies degenerate content is routed to sentinels, not the translator
package models

import "testing"

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ContentClass
	}{
		{"empty string", "", ClassEmpty},
		{"whitespace only", "   \t\n", ClassEmpty},
		{"single char", "अ", ClassTooShort},
		{"two chars", "ॐ।", ClassTooShort},
		{"pure number", "42", ClassNumeric},
		{"verse number", "12.34", ClassNumeric},
		{"number with commas", "1,234", ClassNumeric},
		{"spaced digits", "1 2 3", ClassNumeric},
		{"devanagari text", "शिवाय नमः", ClassTranslatable},
		{"mixed digits and text", "अध्याय 12", ClassTranslatable},
		{"latin sentence", "The great lord spoke.", ClassTranslatable},
		{"dots only", "...", ClassTranslatable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyContent(tt.content); got != tt.want {
				t.Errorf("ClassifyContent(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestSentinelNumeric(t *testing.T) {
	got := SentinelNumeric("42")
	if got != "[numeric: 42]" {
		t.Errorf("SentinelNumeric(42) = %q, want %q", got, "[numeric: 42]")
	}
}

func TestChunkTranslated(t *testing.T) {
	c := &Chunk{ChunkID: 1, Content: "text"}
	if c.Translated() {
		t.Error("chunk without translation should not report Translated")
	}

	c.Translation = SentinelEmpty
	if !c.Translated() {
		t.Error("sentinel translation is terminal and should report Translated")
	}
}
