// ABOUTME: RetrievalResult pairs a chunk with its query similarity score
// ABOUTME: Ephemeral, produced fresh per query, never persisted
package models

// RetrievalResult is one ranked hit from a similarity search
type RetrievalResult struct {
	Chunk      Chunk   `json:"chunk"`
	Similarity float64 `json:"similarity"`
}
