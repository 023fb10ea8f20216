// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates environment setup and display helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/llm"
	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// openStore loads .env, reads configuration, and opens the database
func openStore() (*config.Config, *sqlite.Storage, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}

// newOpenAIClient builds the OpenAI client from configuration
func newOpenAIClient(cfg *config.Config) (*llm.OpenAIClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: llm.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
}

// cliUser resolves the local CLI identity. The CLI is a single-operator
// tool, so the local user carries the admin role.
func cliUser(store *sqlite.Storage) (*models.User, error) {
	username := os.Getenv("DOCUMIND_USER")
	if username == "" {
		username = "local"
	}
	return store.Users().GetOrCreate(username, models.RoleAdmin)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
