// ABOUTME: OpenAI client for embeddings and chat completions
// ABOUTME: Retries with exponential backoff; failures map to ErrExternalService
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3

	// summarizeLimit caps document content sent for summarization
	summarizeLimit = 10000
)

// EmbeddingModel names an OpenAI embedding model
type EmbeddingModel = openai.EmbeddingModel

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        60 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// GenerateEmbedding generates an embedding vector for the given text.
// Empty input is a caller error, not delegated to the API.
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", models.ErrValidation)
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		cancel()
		return embedding64, nil
	}

	return nil, fmt.Errorf("%w: embedding failed after %d attempts: %v",
		models.ErrExternalService, c.maxRetries+1, lastErr)
}

// Complete runs a chat completion with the system message first, the
// truncated history in chronological order, and the current turn last.
func (c *OpenAIClient) Complete(ctx context.Context, systemMessage string, history []models.Message, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemMessage,
	})

	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	return c.createCompletion(ctx, messages, 0.7)
}

// Summarize asks the chat model for a short summary of document content.
// Content beyond summarizeLimit characters is truncated first.
func (c *OpenAIClient) Summarize(ctx context.Context, prompt string) (string, error) {
	if len(prompt) > summarizeLimit {
		prompt = prompt[:summarizeLimit]
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an assistant that summarizes documents. Summarize the content briefly, accurately, and clearly.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		},
	}

	return c.createCompletion(ctx, messages, 0.5)
}

func (c *OpenAIClient) createCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, temperature float32) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    messages,
			Temperature: temperature,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		cancel()
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: completion failed after %d attempts: %v",
		models.ErrExternalService, c.maxRetries+1, lastErr)
}
