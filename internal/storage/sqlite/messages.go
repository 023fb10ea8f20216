// ABOUTME: Message persistence operations for SQLite
// ABOUTME: Append-only per session; source document ids stored as JSON
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/documind/documind/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append stores a new message. Messages are never updated or removed.
func (s *MessageStore) Append(msg *models.Message) error {
	var sources interface{}
	if len(msg.SourceDocuments) > 0 {
		data, err := json.Marshal(msg.SourceDocuments)
		if err != nil {
			return fmt.Errorf("encoding source documents: %w", err)
		}
		sources = string(data)
	}

	_, err := s.db.Exec(`
		INSERT INTO messages (id, session_id, role, content, context, source_documents, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, string(msg.Role), msg.Content, nullString(msg.Context),
		sources, msg.Confidence, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("appending message %s: %w", msg.ID, err)
	}
	return nil
}

// GetBySession returns all messages of a session in chronological order
func (s *MessageStore) GetBySession(sessionID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, context, source_documents, confidence, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// Recent returns the most recent limit messages of a session in
// chronological order (oldest of the window first)
func (s *MessageStore) Recent(sessionID string, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, context, source_documents, confidence, created_at
		FROM (
			SELECT id, session_id, role, content, context, source_documents, confidence,
				created_at, rowid AS rid
			FROM messages
			WHERE session_id = ?
			ORDER BY created_at DESC, rid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, rid ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// CountBySession returns the number of messages in a session
func (s *MessageStore) CountBySession(sessionID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(id) FROM messages WHERE session_id = ?", sessionID).Scan(&count)
	return count, err
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message

	for rows.Next() {
		var (
			msg        models.Message
			role       string
			context    sql.NullString
			sources    sql.NullString
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &context,
			&sources, &confidence, &msg.Timestamp); err != nil {
			return nil, err
		}

		msg.Role = models.MessageRole(role)
		msg.Context = context.String
		msg.Confidence = confidence.Float64
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &msg.SourceDocuments); err != nil {
				return nil, fmt.Errorf("decoding source documents for %s: %w", msg.ID, err)
			}
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
