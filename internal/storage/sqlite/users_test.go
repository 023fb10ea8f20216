// ABOUTME: Tests for user persistence
// ABOUTME: Covers creation, lookup, and idempotent get-or-create
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/documind/documind/internal/models"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	store := newTestStorage(t)

	user := &models.User{
		ID:        "user_1",
		Username:  "alice",
		FullName:  "Alice Example",
		Role:      models.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := store.Users().Create(user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	loaded, err := store.Users().GetByID("user_1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Username != "alice" || loaded.FullName != "Alice Example" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Role != models.RoleAdmin || !loaded.IsAdmin() {
		t.Errorf("role = %s, want admin", loaded.Role)
	}

	byName, err := store.Users().GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != "user_1" {
		t.Errorf("id = %q, want user_1", byName.ID)
	}
}

func TestUserStore_NotFound(t *testing.T) {
	store := newTestStorage(t)

	if _, err := store.Users().GetByID("user_missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
	if _, err := store.Users().GetByUsername("nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetByUsername error = %v, want ErrNotFound", err)
	}
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	store := newTestStorage(t)

	user := &models.User{ID: "user_1", Username: "alice", Role: models.RoleRegular, Active: true, CreatedAt: time.Now()}
	if err := store.Users().Create(user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dupe := &models.User{ID: "user_2", Username: "alice", Role: models.RoleRegular, Active: true, CreatedAt: time.Now()}
	if err := store.Users().Create(dupe); err == nil {
		t.Error("expected unique constraint violation")
	}
}

func TestUserStore_GetOrCreate(t *testing.T) {
	store := newTestStorage(t)

	created, err := store.Users().GetOrCreate("bob", models.RoleRegular)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created.Username != "bob" || created.Role != models.RoleRegular {
		t.Errorf("created = %+v", created)
	}
	if !created.Active {
		t.Error("new user should be active")
	}

	// A second call returns the same user and ignores the new role
	again, err := store.Users().GetOrCreate("bob", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("id = %q, want %q", again.ID, created.ID)
	}
	if again.Role != models.RoleRegular {
		t.Errorf("role = %s, want the original ROLE_USER", again.Role)
	}
}
