// ABOUTME: Shared scan and conversion helpers for the SQLite stores
// ABOUTME: Null handling, bool mapping, and affected-row checks
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/documind/documind/internal/models"
)

// nullString converts an empty string to NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow turns a zero-row update into ErrNotFound
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, models.ErrNotFound)
	}
	return nil
}
