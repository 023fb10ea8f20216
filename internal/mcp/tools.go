// ABOUTME: MCP tool definitions and registration for the documind server
// ABOUTME: Exposes document chat, retrieval search, and listing tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/core"
	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, engine *core.ChatEngine, embedder core.EmbeddingGateway, cfg *config.Config, user *models.User) *Handlers {
	handlers := &Handlers{
		storage:  store,
		engine:   engine,
		embedder: embedder,
		cfg:      cfg,
		user:     user,
	}

	// 1. ask - Ask a question grounded in the uploaded documents
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the uploaded document collection. Returns the reply with confidence and source document ids.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional session id to continue an existing conversation",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	// 2. search_documents - Raw similarity search over document chunks
	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Search document chunks by semantic similarity without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocuments)

	// 3. list_documents - List the active documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List active documents with their processing status and chunk counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	// 4. list_sessions - List the user's chat sessions
	server.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List active chat sessions with message counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListSessions)

	// 5. get_session_history - Full message history of one session
	server.AddTool(mcp.Tool{
		Name:        "get_session_history",
		Description: "Get the complete message history for a chat session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id to retrieve history for",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetSessionHistory)

	return handlers
}
