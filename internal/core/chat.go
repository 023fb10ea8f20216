// ABOUTME: ChatEngine orchestrates one chat turn: retrieve, prompt, complete, persist
// ABOUTME: Serializes turns per session and derives confidence from similarity
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// FallbackReply is returned when the completion gateway fails. The turn
// still succeeds; only the generation degraded.
const FallbackReply = "Sorry, I could not generate an answer right now. Please try again."

// DefaultSessionTitle is used when a session is created without a message
const DefaultSessionTitle = "New Conversation"

// ChatEngine produces assistant replies grounded in retrieved document chunks
type ChatEngine struct {
	store         *sqlite.Storage
	embedder      EmbeddingGateway
	completer     CompletionGateway
	retriever     *Retriever
	historyWindow int

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// NewChatEngine creates a ChatEngine. historyWindow bounds how many recent
// messages are sent to the completion model; all messages stay stored.
func NewChatEngine(store *sqlite.Storage, embedder EmbeddingGateway, completer CompletionGateway, retriever *Retriever, historyWindow int) *ChatEngine {
	return &ChatEngine{
		store:         store,
		embedder:      embedder,
		completer:     completer,
		retriever:     retriever,
		historyWindow: historyWindow,
		sessions:      make(map[string]*sync.Mutex),
	}
}

// ChatResult carries the assistant reply plus provenance for one turn
type ChatResult struct {
	SessionID       string    `json:"session_id"`
	Reply           string    `json:"reply"`
	Confidence      float64   `json:"confidence"`
	SourceDocuments []string  `json:"source_documents,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Send runs one chat turn for the given user. With an empty sessionID a
// new session is created, titled after the message. Concurrent turns on
// the same session are serialized; different sessions are independent.
func (e *ChatEngine) Send(ctx context.Context, user *models.User, sessionID, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", models.ErrValidation)
	}

	session, err := e.resolveSession(user, sessionID, message)
	if err != nil {
		return nil, err
	}

	unlock := e.lockSession(session.ID)
	defer unlock()

	userMsg := &models.Message{
		ID:        newMessageID(),
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   message,
		Timestamp: time.Now(),
	}
	if err := e.store.Messages().Append(userMsg); err != nil {
		return nil, fmt.Errorf("storing user message: %w", err)
	}

	// Without a query vector no retrieval is attempted; the turn aborts
	queryVector, err := e.embedder.GenerateEmbedding(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	corpus, err := e.store.Chunks().AllEmbedded()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	hits := e.retriever.Retrieve(queryVector, corpus)

	history, err := e.store.Messages().Recent(session.ID, e.historyWindow)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	// The current turn goes into the prompt, not the history
	if len(history) > 0 && history[len(history)-1].ID == userMsg.ID {
		history = history[:len(history)-1]
	}

	excerpts := make([]string, len(hits))
	for i, hit := range hits {
		excerpts[i] = hit.Chunk.Content
	}

	systemMessage := BuildSystemMessage(len(hits) > 0)
	prompt := BuildContextualPrompt(message, excerpts)

	reply, err := e.completer.Complete(ctx, systemMessage, history, prompt)
	confidence := meanSimilarity(hits)
	contextText := strings.Join(excerpts, ContextSeparator)
	sources := distinctSources(hits)
	if err != nil {
		// Generation failures degrade to a fixed reply with no provenance
		log.Printf("warning: completion failed for session %s: %v", session.ID, err)
		reply = FallbackReply
		confidence = 0.0
		contextText = ""
		sources = nil
	}

	assistantMsg := &models.Message{
		ID:              newMessageID(),
		SessionID:       session.ID,
		Role:            models.RoleAssistant,
		Content:         reply,
		Context:         contextText,
		SourceDocuments: sources,
		Confidence:      confidence,
		Timestamp:       time.Now(),
	}
	if err := e.store.Messages().Append(assistantMsg); err != nil {
		return nil, fmt.Errorf("storing assistant message: %w", err)
	}

	if err := e.store.Sessions().Touch(session.ID, assistantMsg.Timestamp); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	return &ChatResult{
		SessionID:       session.ID,
		Reply:           reply,
		Confidence:      confidence,
		SourceDocuments: sources,
		Timestamp:       assistantMsg.Timestamp,
	}, nil
}

// CreateSession creates a new empty session for the user
func (e *ChatEngine) CreateSession(user *models.User, title string) (*models.ChatSession, error) {
	if title == "" {
		title = DefaultSessionTitle
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:        newSessionID(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
	if err := e.store.Sessions().Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the user's active sessions, most recent first
func (e *ChatEngine) ListSessions(user *models.User) ([]models.SessionInfo, error) {
	return e.store.Sessions().ListActiveByUser(user.ID)
}

// DeleteSession soft-deletes a session owned by the user. Its messages
// remain retrievable through History.
func (e *ChatEngine) DeleteSession(user *models.User, sessionID string) error {
	if _, err := e.ownedSession(user, sessionID); err != nil {
		return err
	}
	return e.store.Sessions().SoftDelete(sessionID)
}

// History returns all messages of a session owned by the user, in
// chronological order. Soft-deleted sessions stay readable by their owner.
func (e *ChatEngine) History(user *models.User, sessionID string) ([]models.Message, error) {
	if _, err := e.ownedSession(user, sessionID); err != nil {
		return nil, err
	}
	return e.store.Messages().GetBySession(sessionID)
}

func (e *ChatEngine) resolveSession(user *models.User, sessionID, firstMessage string) (*models.ChatSession, error) {
	if sessionID != "" {
		return e.ownedSession(user, sessionID)
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:        newSessionID(),
		UserID:    user.ID,
		Title:     SessionTitle(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
	if err := e.store.Sessions().Save(session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// ownedSession loads a session and enforces that the user owns it
func (e *ChatEngine) ownedSession(user *models.User, sessionID string) (*models.ChatSession, error) {
	session, err := e.store.Sessions().GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != user.ID {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrForbidden)
	}
	return session, nil
}

// lockSession acquires the per-session mutex and returns its release func
func (e *ChatEngine) lockSession(sessionID string) func() {
	e.mu.Lock()
	m, ok := e.sessions[sessionID]
	if !ok {
		m = &sync.Mutex{}
		e.sessions[sessionID] = m
	}
	e.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// meanSimilarity is the confidence score: the arithmetic mean of the
// similarities of the chunks actually used as context, 0.0 if none
func meanSimilarity(hits []models.RetrievalResult) float64 {
	if len(hits) == 0 {
		return 0.0
	}
	var sum float64
	for _, hit := range hits {
		sum += hit.Similarity
	}
	return sum / float64(len(hits))
}

// distinctSources returns the distinct document ids of the ranked hits,
// in order of first appearance
func distinctSources(hits []models.RetrievalResult) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, hit := range hits {
		if !seen[hit.Chunk.DocumentID] {
			seen[hit.Chunk.DocumentID] = true
			sources = append(sources, hit.Chunk.DocumentID)
		}
	}
	return sources
}

func newSessionID() string {
	return "sess_" + uuid.New().String()
}

func newMessageID() string {
	return "msg_" + uuid.New().String()
}
