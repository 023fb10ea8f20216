// ABOUTME: Gateway interfaces the core consumes for external model calls
// ABOUTME: Implemented by internal/llm; faked in tests
package core

import (
	"context"

	"github.com/documind/documind/internal/models"
)

// EmbeddingGateway computes an embedding vector for a text
type EmbeddingGateway interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// CompletionGateway generates chat completions and document summaries
type CompletionGateway interface {
	Complete(ctx context.Context, systemMessage string, history []models.Message, userPrompt string) (string, error)
	Summarize(ctx context.Context, prompt string) (string, error)
}
