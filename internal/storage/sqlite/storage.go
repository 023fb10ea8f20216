// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Single construction point handed to the chat engine, ingestor, and CLI
package sqlite

import (
	"fmt"
)

// Storage bundles the per-entity stores over one database connection
type Storage struct {
	db        *DB
	users     *UserStore
	documents *DocumentStore
	chunks    *ChunkStore
	sessions  *SessionStore
	messages  *MessageStore
}

// NewStorage opens (or creates) the database at dbPath and initializes all stores
func NewStorage(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:        db,
		users:     NewUserStore(db),
		documents: NewDocumentStore(db),
		chunks:    NewChunkStore(db),
		sessions:  NewSessionStore(db),
		messages:  NewMessageStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Users returns the user store
func (s *Storage) Users() *UserStore { return s.users }

// Documents returns the document store
func (s *Storage) Documents() *DocumentStore { return s.documents }

// Chunks returns the chunk store
func (s *Storage) Chunks() *ChunkStore { return s.chunks }

// Sessions returns the session store
func (s *Storage) Sessions() *SessionStore { return s.sessions }

// Messages returns the message store
func (s *Storage) Messages() *MessageStore { return s.messages }
