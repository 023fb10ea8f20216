// ABOUTME: Centralized configuration for the documind backend
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the document chat system.
// It is built once at startup and passed into each component; nothing
// reads the environment after Load returns.
type Config struct {
	// Storage settings
	DBPath    string
	UploadDir string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Chunking settings
	ChunkSize    int
	ChunkOverlap int

	// Retrieval settings
	MaxContextChunks    int
	SimilarityThreshold float64

	// Conversation settings
	HistoryWindow int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:              getEnv("DOCUMIND_DB", DefaultDBPath()),
		UploadDir:           getEnv("DOCUMIND_UPLOAD_DIR", DefaultUploadDir()),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("DOCUMIND_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("DOCUMIND_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ChunkSize:           getEnvInt("DOCUMIND_CHUNK_SIZE", 1000),
		ChunkOverlap:        getEnvInt("DOCUMIND_CHUNK_OVERLAP", 200),
		MaxContextChunks:    getEnvInt("DOCUMIND_MAX_CONTEXT_CHUNKS", 5),
		SimilarityThreshold: getEnvFloat("DOCUMIND_SIMILARITY_THRESHOLD", 0.7),
		HistoryWindow:       getEnvInt("DOCUMIND_HISTORY_WINDOW", 10),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("DOCUMIND_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("DOCUMIND_CHUNK_OVERLAP must be non-negative, got %d", c.ChunkOverlap)
	}
	if c.MaxContextChunks <= 0 {
		return fmt.Errorf("DOCUMIND_MAX_CONTEXT_CHUNKS must be positive, got %d", c.MaxContextChunks)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("DOCUMIND_SIMILARITY_THRESHOLD must be -1 to 1, got %f", c.SimilarityThreshold)
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("DOCUMIND_HISTORY_WINDOW must be positive, got %d", c.HistoryWindow)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/documind"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "documind")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "documind.db")
}

// DefaultUploadDir returns the default directory for uploaded file copies
func DefaultUploadDir() string {
	return filepath.Join(DefaultDataDir(), "uploads")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
