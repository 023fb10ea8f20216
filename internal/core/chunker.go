// ABOUTME: Chunker splits extracted document text into overlapping segments
// ABOUTME: Sentence-boundary aware; chunk offsets cover the full source text
package core

import (
	"strings"

	"github.com/documind/documind/internal/models"
)

const (
	// sentenceSearchWindow bounds how far back from the window edge the
	// chunker looks for a sentence terminator.
	sentenceSearchWindow = 200

	// maxChunks caps output on pathological input
	maxChunks = 10000
)

// Chunker partitions text into bounded, overlapping chunks
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker. An overlap of chunkSize or more is
// clamped to chunkSize/2 so the scan always makes forward progress.
func NewChunker(chunkSize, overlap int) *Chunker {
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split scans text with a sliding window and returns ordered chunk spans.
// A window that would cut mid-sentence is truncated at the closest sentence
// terminator found within the last sentenceSearchWindow characters, as long
// as that terminator lies strictly after the window start. Empty or
// whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []models.ChunkSpan {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var spans []models.ChunkSpan
	n := len(text)
	start := 0

	for start < n {
		end := start + c.chunkSize
		if end >= n {
			end = n
		} else {
			searchStart := end - sentenceSearchWindow
			if searchStart <= start {
				searchStart = start + 1
			}
			for i := end - 1; i >= searchStart; i-- {
				if isSentenceEnd(text[i]) {
					end = i + 1
					break
				}
			}
		}

		content := strings.TrimSpace(text[start:end])
		if content != "" {
			spans = append(spans, models.ChunkSpan{
				Content:       content,
				StartOffset:   start,
				EndOffset:     end,
				TokenEstimate: EstimateTokens(content),
			})
		}

		// The remaining tail is pure overlap once the window reaches the end
		if end >= n || len(spans) >= maxChunks {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Force progress to guarantee termination
			next = start + maxInt(1, c.chunkSize/2)
		}
		start = next
	}

	return spans
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '?' || b == '!'
}

// EstimateTokens approximates token count as one token per 4 characters.
// A heuristic, not an exact tokenizer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
