// ABOUTME: MCP tool handler implementations for the documind server
// ABOUTME: Thin adapters over the chat engine, retriever, and stores
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/core"
	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage  *sqlite.Storage
	engine   *core.ChatEngine
	embedder core.EmbeddingGateway
	cfg      *config.Config
	user     *models.User
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", "")

	result, err := h.engine.Send(ctx, h.user, sessionID, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}

	return jsonResult(result)
}

// SearchDocuments handles the search_documents tool
func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)
	if maxResults <= 0 {
		maxResults = 5
	}

	vector, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query: %v", err)), nil
	}

	corpus, err := h.storage.Chunks().AllEmbedded()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading corpus: %v", err)), nil
	}

	retriever := core.NewRetriever(maxResults, h.cfg.SimilarityThreshold)
	hits := retriever.Retrieve(vector, corpus)

	type hitResult struct {
		DocumentID string  `json:"document_id"`
		ChunkIndex int     `json:"chunk_index"`
		Content    string  `json:"content"`
		Similarity float64 `json:"similarity"`
	}
	results := make([]hitResult, len(hits))
	for i, hit := range hits {
		results[i] = hitResult{
			DocumentID: hit.Chunk.DocumentID,
			ChunkIndex: hit.Chunk.Index,
			Content:    hit.Chunk.Content,
			Similarity: hit.Similarity,
		}
	}

	return jsonResult(results)
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := h.storage.Documents().ListInfos()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
	}
	return jsonResult(infos)
}

// ListSessions handles the list_sessions tool
func (h *Handlers) ListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := h.engine.ListSessions(h.user)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing sessions: %v", err)), nil
	}
	return jsonResult(infos)
}

// GetSessionHistory handles the get_session_history tool
func (h *Handlers) GetSessionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	messages, err := h.engine.History(h.user, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading history: %v", err)), nil
	}
	return jsonResult(messages)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
