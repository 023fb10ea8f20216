// ABOUTME: Chat session persistence operations for SQLite
// ABOUTME: Soft delete via active flag; listings include message counts
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/documind/documind/internal/models"
)

// SessionStore handles chat session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save inserts or updates a session
func (s *SessionStore) Save(session *models.ChatSession) error {
	var lastMessageAt interface{}
	if !session.LastMessageAt.IsZero() {
		lastMessageAt = session.LastMessageAt
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, title, created_at, updated_at, last_message_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			last_message_at = excluded.last_message_at,
			active = excluded.active
	`, session.ID, session.UserID, session.Title, session.CreatedAt, session.UpdatedAt,
		lastMessageAt, boolToInt(session.Active))
	if err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	return nil
}

// GetByID retrieves a session by id, including soft-deleted ones so an
// owner can still read history after deletion
func (s *SessionStore) GetByID(id string) (*models.ChatSession, error) {
	var (
		session       models.ChatSession
		lastMessageAt sql.NullTime
		active        int
	)

	err := s.db.QueryRow(`
		SELECT id, user_id, title, created_at, updated_at, last_message_at, active
		FROM sessions
		WHERE id = ?
	`, id).Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt,
		&session.UpdatedAt, &lastMessageAt, &active)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if lastMessageAt.Valid {
		session.LastMessageAt = lastMessageAt.Time
	}
	session.Active = active == 1
	return &session, nil
}

// ListActiveByUser returns a user's active sessions with message counts,
// most recently active first
func (s *SessionStore) ListActiveByUser(userID string) ([]models.SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.title, s.created_at, s.last_message_at, COUNT(m.id)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		WHERE s.user_id = ? AND s.active = 1
		GROUP BY s.id
		ORDER BY s.last_message_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var infos []models.SessionInfo
	for rows.Next() {
		var (
			info          models.SessionInfo
			lastMessageAt sql.NullTime
		)
		if err := rows.Scan(&info.ID, &info.Title, &info.CreatedAt, &lastMessageAt, &info.MessageCount); err != nil {
			return nil, err
		}
		if lastMessageAt.Valid {
			info.LastMessageAt = lastMessageAt.Time
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// SoftDelete marks a session inactive; its messages remain stored
func (s *SessionStore) SoftDelete(id string) error {
	res, err := s.db.Exec("UPDATE sessions SET active = 0, updated_at = ? WHERE id = ?", time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// Touch updates the session's last-activity timestamps
func (s *SessionStore) Touch(id string, at time.Time) error {
	res, err := s.db.Exec("UPDATE sessions SET last_message_at = ?, updated_at = ? WHERE id = ?", at, at, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}
