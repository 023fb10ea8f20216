// ABOUTME: Tests for the sliding-window document chunker
// ABOUTME: Covers overlap, sentence boundaries, progress guarantees, and caps
package core

import (
	"strings"
	"testing"
)

func TestChunker_EmptyInput(t *testing.T) {
	chunker := NewChunker(1000, 200)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   \t\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := chunker.Split(tt.text)
			if len(spans) != 0 {
				t.Errorf("Split(%q) returned %d spans, want 0", tt.text, len(spans))
			}
		})
	}
}

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	chunker := NewChunker(1000, 200)
	text := "A short document that fits in one chunk."

	spans := chunker.Split(text)
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Content != text {
		t.Errorf("content = %q, want %q", spans[0].Content, text)
	}
	if spans[0].StartOffset != 0 || spans[0].EndOffset != len(text) {
		t.Errorf("offsets = [%d, %d), want [0, %d)", spans[0].StartOffset, spans[0].EndOffset, len(text))
	}
}

func TestChunker_SlidingWindowOverlap(t *testing.T) {
	// No sentence terminators, so every window is cut at exactly chunkSize
	chunker := NewChunker(1000, 200)
	text := strings.Repeat("a", 2300)

	spans := chunker.Split(text)
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}

	wantOffsets := []struct{ start, end int }{
		{0, 1000},
		{800, 1800},
		{1600, 2300},
	}
	for i, want := range wantOffsets {
		if spans[i].StartOffset != want.start || spans[i].EndOffset != want.end {
			t.Errorf("span %d offsets = [%d, %d), want [%d, %d)",
				i, spans[i].StartOffset, spans[i].EndOffset, want.start, want.end)
		}
	}

	// Consecutive spans share exactly the overlap region
	if spans[1].StartOffset != spans[0].EndOffset-200 {
		t.Errorf("span 1 starts at %d, want %d", spans[1].StartOffset, spans[0].EndOffset-200)
	}

	// The last span must reach the end of the text
	if spans[len(spans)-1].EndOffset != len(text) {
		t.Errorf("last span ends at %d, want %d", spans[len(spans)-1].EndOffset, len(text))
	}
}

func TestChunker_SentenceBoundary(t *testing.T) {
	// A terminator inside the search window truncates the chunk just after it
	chunker := NewChunker(60, 0)
	text := strings.Repeat("x", 40) + ". " + strings.Repeat("y", 40)

	spans := chunker.Split(text)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if !strings.HasSuffix(spans[0].Content, ".") {
		t.Errorf("first span %q should end at the sentence terminator", spans[0].Content)
	}
	if spans[0].EndOffset != 41 {
		t.Errorf("first span ends at %d, want 41", spans[0].EndOffset)
	}
	if spans[1].Content != strings.Repeat("y", 40) {
		t.Errorf("second span = %q, want the trailing y-run", spans[1].Content)
	}
}

func TestChunker_QuestionAndExclamationTerminators(t *testing.T) {
	for _, terminator := range []string{"?", "!"} {
		chunker := NewChunker(60, 0)
		text := strings.Repeat("x", 40) + terminator + " " + strings.Repeat("y", 40)

		spans := chunker.Split(text)
		if len(spans) != 2 {
			t.Fatalf("terminator %q: got %d spans, want 2", terminator, len(spans))
		}
		if !strings.HasSuffix(spans[0].Content, terminator) {
			t.Errorf("terminator %q: first span %q should end at it", terminator, spans[0].Content)
		}
	}
}

func TestChunker_TerminatorAtSearchWindowEdge(t *testing.T) {
	// A terminator sitting exactly at the far edge of the search window
	// still truncates the chunk
	chunker := NewChunker(1000, 200)
	text := strings.Repeat("a", 800) + "." + strings.Repeat("b", 400)

	spans := chunker.Split(text)
	if len(spans) < 2 {
		t.Fatalf("got %d spans, want at least 2", len(spans))
	}
	if spans[0].EndOffset != 801 {
		t.Errorf("first span ends at %d, want 801", spans[0].EndOffset)
	}
	if !strings.HasSuffix(spans[0].Content, ".") {
		t.Errorf("first span %q should end at the sentence terminator", spans[0].Content)
	}
	if spans[len(spans)-1].EndOffset != len(text) {
		t.Errorf("last span ends at %d, want %d", spans[len(spans)-1].EndOffset, len(text))
	}
}

func TestChunker_OverlapClampedToHalfChunk(t *testing.T) {
	// Overlap >= chunkSize would never advance; it is clamped to chunkSize/2
	chunker := NewChunker(100, 150)
	text := strings.Repeat("a", 250)

	spans := chunker.Split(text)
	if len(spans) < 2 {
		t.Fatalf("got %d spans, want at least 2", len(spans))
	}
	if step := spans[1].StartOffset - spans[0].StartOffset; step != 50 {
		t.Errorf("window advanced by %d, want 50", step)
	}
}

func TestChunker_ForcedProgress(t *testing.T) {
	// Degenerate settings must still terminate and cover the text
	chunker := NewChunker(10, 9)
	text := strings.Repeat("a", 100)

	spans := chunker.Split(text)
	if len(spans) == 0 {
		t.Fatal("got no spans")
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].StartOffset <= spans[i-1].StartOffset {
			t.Fatalf("span %d does not advance: start %d after %d",
				i, spans[i].StartOffset, spans[i-1].StartOffset)
		}
	}
	if spans[len(spans)-1].EndOffset != len(text) {
		t.Errorf("last span ends at %d, want %d", spans[len(spans)-1].EndOffset, len(text))
	}
}

func TestChunker_MaxChunksCap(t *testing.T) {
	chunker := NewChunker(1, 0)
	text := strings.Repeat("a", 20000)

	spans := chunker.Split(text)
	if len(spans) != maxChunks {
		t.Errorf("got %d spans, want cap of %d", len(spans), maxChunks)
	}
}

func TestChunker_TokenEstimate(t *testing.T) {
	chunker := NewChunker(1000, 0)
	text := strings.Repeat("a", 400)

	spans := chunker.Split(text)
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].TokenEstimate != 100 {
		t.Errorf("TokenEstimate = %d, want 100", spans[0].TokenEstimate)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abcd", 1},
		{strings.Repeat("a", 100), 25},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
