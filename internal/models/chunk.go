// ABOUTME: Chunk is a bounded, possibly-overlapping substring of a document
// ABOUTME: The unit of embedding and retrieval; offsets index the source text
package models

import "time"

// Embedding is the tagged embedding state of a chunk.
// A chunk stays pending until a vector has been computed for it;
// pending chunks are never scored by retrieval.
type Embedding struct {
	Vector []float64 `json:"vector,omitempty"`
}

// Ready reports whether a vector has been computed
func (e Embedding) Ready() bool {
	return len(e.Vector) > 0
}

// Chunk represents one stored segment of a document's extracted text
type Chunk struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	Index         int       `json:"index"`
	Content       string    `json:"content"`
	StartOffset   int       `json:"start_offset"`
	EndOffset     int       `json:"end_offset"`
	TokenEstimate int       `json:"token_estimate"`
	Embedding     Embedding `json:"embedding"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChunkSpan is the chunker's output before a chunk is assigned identity
// and persisted: content plus its window into the source text.
type ChunkSpan struct {
	Content       string
	StartOffset   int
	EndOffset     int
	TokenEstimate int
}
