// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to chat with the document collection via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/documind/documind/internal/core"
	"github.com/documind/documind/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Documind as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to chat with the document collection via stdio.

Configure in Claude Desktop's config file to enable document tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  documind mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "documind": {
  #       "command": "documind",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}

	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and chat will not work")
	}

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return err
	}

	user, err := cliUser(store)
	if err != nil {
		return err
	}

	retriever := core.NewRetriever(cfg.MaxContextChunks, cfg.SimilarityThreshold)
	engine := core.NewChatEngine(store, client, client, retriever, cfg.HistoryWindow)

	server := mcpserver.NewMCPServer(
		"Documind Document Chat",
		"0.1.0",
	)

	mcp.RegisterTools(server, store, engine, client, cfg, user)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Documind MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
