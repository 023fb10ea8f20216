// ABOUTME: Tests for the chat engine's turn orchestration
// ABOUTME: Uses fake model gateways and in-memory SQLite storage
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// fakeEmbedder returns canned vectors without calling any API
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	failOn  string
	err     error
	calls   int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, fmt.Errorf("%w: embedding unavailable", models.ErrExternalService)
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0}, nil
}

// fakeCompleter records the last prompt it was handed
type fakeCompleter struct {
	mu           sync.Mutex
	reply        string
	err          error
	summary      string
	summarizeErr error

	lastSystem  string
	lastPrompt  string
	lastHistory int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemMessage string, history []models.Message, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSystem = systemMessage
	f.lastPrompt = userPrompt
	f.lastHistory = len(history)
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "a generated answer", nil
	}
	return f.reply, nil
}

func (f *fakeCompleter) Summarize(ctx context.Context, prompt string) (string, error) {
	if f.summarizeErr != nil {
		return "", f.summarizeErr
	}
	return f.summary, nil
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("creating in-memory storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestUser(t *testing.T, store *sqlite.Storage, username string) *models.User {
	t.Helper()
	user, err := store.Users().GetOrCreate(username, models.RoleRegular)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// seedEmbeddedDocument stores a processed document whose chunks carry the
// given embedding vectors, making them retrievable
func seedEmbeddedDocument(t *testing.T, store *sqlite.Storage, docID string, vectors ...[]float64) {
	t.Helper()
	doc := &models.Document{
		ID:               docID,
		Filename:         docID + ".txt",
		OriginalFilename: docID + ".txt",
		FilePath:         "/tmp/" + docID + ".txt",
		FileType:         "txt",
		Status:           models.StatusProcessed,
		Processed:        true,
		Active:           true,
		UploadedAt:       time.Now(),
	}
	if err := store.Documents().Save(doc); err != nil {
		t.Fatalf("saving document: %v", err)
	}

	chunks := make([]models.Chunk, len(vectors))
	for i, vec := range vectors {
		chunks[i] = models.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", docID, i),
			DocumentID: docID,
			Index:      i,
			Content:    fmt.Sprintf("chunk %d of %s", i, docID),
			Embedding:  models.Embedding{Vector: vec},
			CreatedAt:  time.Now(),
		}
	}
	if err := store.Chunks().ReplaceForDocument(docID, chunks); err != nil {
		t.Fatalf("saving chunks: %v", err)
	}
}

func TestChatEngine_Send_NewSessionWithoutDocuments(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{reply: "I can only answer from your documents."}
	engine := NewChatEngine(store, embedder, completer, NewRetriever(5, 0.7), 10)

	result, err := engine.Send(context.Background(), user, "", "What is in my files?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if result.Reply != "I can only answer from your documents." {
		t.Errorf("reply = %q", result.Reply)
	}
	if result.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0 with no retrieved chunks", result.Confidence)
	}
	if len(result.SourceDocuments) != 0 {
		t.Errorf("sources = %v, want none", result.SourceDocuments)
	}
	if result.SessionID == "" {
		t.Fatal("expected a new session id")
	}

	// The no-context system prompt must have been used
	if !strings.Contains(completer.lastSystem, "No relevant excerpts") {
		t.Error("expected the no-context system prompt")
	}
	// Without excerpts the question passes through unchanged
	if completer.lastPrompt != "What is in my files?" {
		t.Errorf("prompt = %q, want the bare question", completer.lastPrompt)
	}

	session, err := store.Sessions().GetByID(result.SessionID)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if session.Title != "What is in my files?" {
		t.Errorf("session title = %q", session.Title)
	}

	messages, err := store.Messages().GetBySession(result.SessionID)
	if err != nil {
		t.Fatalf("loading messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[1].Role != models.RoleAssistant {
		t.Errorf("message roles = %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestChatEngine_Send_EmptyMessage(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := engine.Send(context.Background(), user, "", message); !errors.Is(err, models.ErrValidation) {
			t.Errorf("Send(%q) error = %v, want ErrValidation", message, err)
		}
	}
}

func TestChatEngine_Send_WithRetrievedContext(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	seedEmbeddedDocument(t, store, "doc_a", []float64{1, 0}, []float64{0, 1})

	embedder := &fakeEmbedder{vectors: map[string][]float64{"tell me about chunk zero": {1, 0}}}
	completer := &fakeCompleter{reply: "grounded answer"}
	engine := NewChatEngine(store, embedder, completer, NewRetriever(5, 0.7), 10)

	result, err := engine.Send(context.Background(), user, "", "tell me about chunk zero")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if result.Reply != "grounded answer" {
		t.Errorf("reply = %q", result.Reply)
	}
	// Only the aligned chunk clears the 0.7 threshold, with similarity 1.0
	if result.Confidence < 0.99 {
		t.Errorf("confidence = %v, want ~1.0", result.Confidence)
	}
	if len(result.SourceDocuments) != 1 || result.SourceDocuments[0] != "doc_a" {
		t.Errorf("sources = %v, want [doc_a]", result.SourceDocuments)
	}
	if !strings.Contains(completer.lastPrompt, "chunk 0 of doc_a") {
		t.Error("prompt should contain the retrieved excerpt")
	}
	if !strings.Contains(completer.lastSystem, "Ground your answer") {
		t.Error("expected the with-context system prompt")
	}

	// The assistant message persists provenance
	messages, err := store.Messages().GetBySession(result.SessionID)
	if err != nil {
		t.Fatalf("loading messages: %v", err)
	}
	assistant := messages[len(messages)-1]
	if assistant.Context == "" {
		t.Error("assistant message should store the context used")
	}
	if len(assistant.SourceDocuments) != 1 || assistant.SourceDocuments[0] != "doc_a" {
		t.Errorf("stored sources = %v", assistant.SourceDocuments)
	}
	if assistant.Confidence < 0.99 {
		t.Errorf("stored confidence = %v", assistant.Confidence)
	}
}

func TestChatEngine_Send_CompletionFailureDegrades(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	seedEmbeddedDocument(t, store, "doc_a", []float64{1, 0})

	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{err: fmt.Errorf("%w: model down", models.ErrExternalService)}
	engine := NewChatEngine(store, embedder, completer, NewRetriever(5, 0.7), 10)

	result, err := engine.Send(context.Background(), user, "", "anything")
	if err != nil {
		t.Fatalf("Send should not fail when completion degrades: %v", err)
	}

	if result.Reply != FallbackReply {
		t.Errorf("reply = %q, want fallback", result.Reply)
	}
	if result.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", result.Confidence)
	}
	if len(result.SourceDocuments) != 0 {
		t.Errorf("sources = %v, want none on degraded reply", result.SourceDocuments)
	}

	// The degraded assistant message carries no provenance either
	messages, err := store.Messages().GetBySession(result.SessionID)
	if err != nil {
		t.Fatalf("loading messages: %v", err)
	}
	assistant := messages[len(messages)-1]
	if assistant.Context != "" || len(assistant.SourceDocuments) != 0 {
		t.Error("degraded reply should not store context or sources")
	}
}

func TestChatEngine_Send_EmbeddingFailurePropagates(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")

	embedder := &fakeEmbedder{err: fmt.Errorf("%w: embeddings down", models.ErrExternalService)}
	engine := NewChatEngine(store, embedder, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	_, err := engine.Send(context.Background(), user, "", "anything")
	if !errors.Is(err, models.ErrExternalService) {
		t.Errorf("error = %v, want ErrExternalService", err)
	}
}

func TestChatEngine_Send_ForbiddenSession(t *testing.T) {
	store := newTestStorage(t)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	result, err := engine.Send(context.Background(), alice, "", "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, err := engine.Send(context.Background(), bob, result.SessionID, "intruding"); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if _, err := engine.History(bob, result.SessionID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("History error = %v, want ErrForbidden", err)
	}
	if err := engine.DeleteSession(bob, result.SessionID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("DeleteSession error = %v, want ErrForbidden", err)
	}
}

func TestChatEngine_Send_UnknownSession(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	if _, err := engine.Send(context.Background(), user, "sess_missing", "hello"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestChatEngine_Send_HistoryWindow(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	completer := &fakeCompleter{}
	engine := NewChatEngine(store, &fakeEmbedder{}, completer, NewRetriever(5, 0.7), 4)

	var sessionID string
	for i := 0; i < 5; i++ {
		result, err := engine.Send(context.Background(), user, sessionID, fmt.Sprintf("question %d", i))
		if err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
		sessionID = result.SessionID
	}

	// The window holds at most 4 messages; the current question is removed
	// from it before completion
	if completer.lastHistory > 3 {
		t.Errorf("history sent to model = %d messages, want at most 3", completer.lastHistory)
	}

	// All ten messages stay stored regardless of the window
	count, err := store.Messages().CountBySession(sessionID)
	if err != nil {
		t.Fatalf("counting messages: %v", err)
	}
	if count != 10 {
		t.Errorf("stored messages = %d, want 10", count)
	}
}

func TestChatEngine_Send_ConcurrentTurnsSerialized(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	first, err := engine.Send(context.Background(), user, "", "opening question")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	sessionID := first.SessionID

	const turns = 8
	var wg sync.WaitGroup
	errs := make(chan error, turns)
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := engine.Send(context.Background(), user, sessionID, fmt.Sprintf("concurrent question %d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Send: %v", err)
	}

	messages, err := store.Messages().GetBySession(sessionID)
	if err != nil {
		t.Fatalf("loading messages: %v", err)
	}
	if want := 2 * (turns + 1); len(messages) != want {
		t.Fatalf("got %d messages, want %d", len(messages), want)
	}

	// Turns never interleave: the persisted history strictly alternates
	// user and assistant messages
	for i, msg := range messages {
		want := models.RoleUser
		if i%2 == 1 {
			want = models.RoleAssistant
		}
		if msg.Role != want {
			t.Fatalf("message %d role = %s, want %s", i, msg.Role, want)
		}
	}
}

func TestChatEngine_Send_LongMessageTruncatedTitle(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	message := strings.Repeat("q", 80)
	result, err := engine.Send(context.Background(), user, "", message)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	session, err := store.Sessions().GetByID(result.SessionID)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if want := strings.Repeat("q", 47) + "..."; session.Title != want {
		t.Errorf("title = %q, want %q", session.Title, want)
	}
}

func TestChatEngine_CreateSession(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	session, err := engine.CreateSession(user, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Title != DefaultSessionTitle {
		t.Errorf("title = %q, want default", session.Title)
	}

	named, err := engine.CreateSession(user, "Quarterly report questions")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if named.Title != "Quarterly report questions" {
		t.Errorf("title = %q", named.Title)
	}
}

func TestChatEngine_DeleteSession_SoftDelete(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	result, err := engine.Send(context.Background(), user, "", "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := engine.DeleteSession(user, result.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	sessions, err := engine.ListSessions(user)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("deleted session still listed: %v", sessions)
	}

	// History stays readable by the owner after deletion
	messages, err := engine.History(user, result.SessionID)
	if err != nil {
		t.Fatalf("History after delete: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2", len(messages))
	}
}

func TestChatEngine_ListSessions(t *testing.T) {
	store := newTestStorage(t)
	user := newTestUser(t, store, "alice")
	engine := NewChatEngine(store, &fakeEmbedder{}, &fakeCompleter{}, NewRetriever(5, 0.7), 10)

	if _, err := engine.Send(context.Background(), user, "", "first topic"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := engine.Send(context.Background(), user, "", "second topic"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	sessions, err := engine.ListSessions(user)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	for _, info := range sessions {
		if info.MessageCount != 2 {
			t.Errorf("session %s message count = %d, want 2", info.ID, info.MessageCount)
		}
	}
}
