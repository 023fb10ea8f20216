// ABOUTME: Main entry point for the documind MCP server with stdio transport
// ABOUTME: Initializes storage, chat engine, and MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/core"
	"github.com/documind/documind/internal/llm"
	"github.com/documind/documind/internal/mcp"
	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and chat will not work")
	}

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: llm.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	retriever := core.NewRetriever(cfg.MaxContextChunks, cfg.SimilarityThreshold)
	engine := core.NewChatEngine(store, client, client, retriever, cfg.HistoryWindow)

	// MCP runs as a single local user
	user, err := store.Users().GetOrCreate("local", models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to resolve local user: %v", err)
	}

	server := mcpserver.NewMCPServer(
		"Documind Document Chat",
		"0.1.0",
	)

	mcp.RegisterTools(server, store, engine, client, cfg, user)

	log.Println("Documind MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
