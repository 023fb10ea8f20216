// ABOUTME: User persistence operations for SQLite
// ABOUTME: Minimal local identity; authentication lives outside the core
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/documind/documind/internal/models"
)

// UserStore handles user persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create stores a new user
func (s *UserStore) Create(user *models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, username, full_name, role, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, nullString(user.FullName), string(user.Role),
		boolToInt(user.Active), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", user.Username, err)
	}
	return nil
}

// GetByID retrieves a user by id
func (s *UserStore) GetByID(id string) (*models.User, error) {
	return s.getBy("id", id)
}

// GetByUsername retrieves a user by username
func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	return s.getBy("username", username)
}

// GetOrCreate returns the user with the given username, creating it with
// the given role when absent
func (s *UserStore) GetOrCreate(username string, role models.UserRole) (*models.User, error) {
	user, err := s.GetByUsername(username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:        "user_" + uuid.New().String(),
		Username:  username,
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) getBy(column, value string) (*models.User, error) {
	var (
		user     models.User
		fullName sql.NullString
		role     string
		active   int
	)

	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT id, username, full_name, role, active, created_at
		FROM users
		WHERE %s = ?
	`, column), value).Scan(&user.ID, &user.Username, &fullName, &role, &active, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	user.FullName = fullName.String
	user.Role = models.UserRole(role)
	user.Active = active == 1
	return &user, nil
}
