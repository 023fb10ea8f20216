// ABOUTME: Retrieval engine scores stored chunk embeddings against a query vector
// ABOUTME: Brute-force cosine similarity scan with threshold filter and top-K cap
package core

import (
	"math"
	"sort"

	"github.com/documind/documind/internal/models"
)

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns 0.0 when either vector is empty, dimensions differ, or a
// norm is zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Retriever ranks stored chunks against a query embedding. The corpus is
// scanned linearly on every call; there is no index to maintain.
type Retriever struct {
	limit     int
	threshold float64
}

// NewRetriever creates a Retriever returning at most limit results with
// similarity of at least threshold.
func NewRetriever(limit int, threshold float64) *Retriever {
	return &Retriever{limit: limit, threshold: threshold}
}

// Retrieve scores every chunk with a ready embedding, filters by the
// threshold, and returns the top results sorted by similarity descending.
// Equal scores keep corpus order. Chunks without an embedding are never
// compared. An empty result is a valid answer, not an error.
func (r *Retriever) Retrieve(query []float64, corpus []models.Chunk) []models.RetrievalResult {
	var results []models.RetrievalResult

	for _, chunk := range corpus {
		if !chunk.Embedding.Ready() {
			continue
		}
		sim := CosineSimilarity(query, chunk.Embedding.Vector)
		if sim >= r.threshold {
			results = append(results, models.RetrievalResult{Chunk: chunk, Similarity: sim})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > r.limit {
		results = results[:r.limit]
	}

	return results
}
