// ABOUTME: Document persistence operations for SQLite
// ABOUTME: Lifecycle status updates, soft delete, and listings with chunk counts
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/documind/documind/internal/models"
)

// DocumentStore handles document persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save inserts or updates a document
func (s *DocumentStore) Save(doc *models.Document) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (id, filename, original_filename, file_path, file_type, file_size,
			extracted_content, summary, status, processed, active, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			extracted_content = excluded.extracted_content,
			summary = excluded.summary,
			status = excluded.status,
			processed = excluded.processed,
			active = excluded.active
	`, doc.ID, doc.Filename, doc.OriginalFilename, doc.FilePath, doc.FileType, doc.FileSize,
		nullString(doc.ExtractedContent), nullString(doc.Summary), string(doc.Status),
		boolToInt(doc.Processed), boolToInt(doc.Active), nullString(doc.UploadedBy), doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	return nil
}

// GetByID retrieves a document by id
func (s *DocumentStore) GetByID(id string) (*models.Document, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, original_filename, file_path, file_type, file_size,
			extracted_content, summary, status, processed, active, uploaded_by, uploaded_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SetStatus updates the lifecycle status of a document
func (s *DocumentStore) SetStatus(id string, status models.DocumentStatus) error {
	res, err := s.db.Exec("UPDATE documents SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// MarkProcessed sets the processed flag and final status for a document
func (s *DocumentStore) MarkProcessed(id string, processed bool) error {
	status := models.StatusProcessed
	if !processed {
		status = models.StatusFailed
	}
	res, err := s.db.Exec("UPDATE documents SET processed = ?, status = ? WHERE id = ?",
		boolToInt(processed), string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// SoftDelete marks a document inactive. Chunks are kept on disk but
// excluded from retrieval because corpus queries filter on active.
func (s *DocumentStore) SoftDelete(id string) error {
	res, err := s.db.Exec("UPDATE documents SET active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// ListActive returns active documents, newest first
func (s *DocumentStore) ListActive() ([]models.Document, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, original_filename, file_path, file_type, file_size,
			extracted_content, summary, status, processed, active, uploaded_by, uploaded_at
		FROM documents
		WHERE active = 1
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// ListInfos returns active document summaries with chunk counts, newest first
func (s *DocumentStore) ListInfos() ([]models.DocumentInfo, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.original_filename, d.file_type, d.file_size, d.status, d.processed,
			d.uploaded_at, COUNT(c.id), COUNT(c.embedding)
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		WHERE d.active = 1
		GROUP BY d.id
		ORDER BY d.uploaded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var infos []models.DocumentInfo
	for rows.Next() {
		var (
			info      models.DocumentInfo
			status    string
			processed int
		)
		if err := rows.Scan(&info.ID, &info.OriginalFilename, &info.FileType, &info.FileSize,
			&status, &processed, &info.UploadedAt, &info.ChunkCount, &info.EmbeddedCount); err != nil {
			return nil, err
		}
		info.Status = models.DocumentStatus(status)
		info.Processed = processed == 1
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		doc        models.Document
		extracted  sql.NullString
		summary    sql.NullString
		status     string
		processed  int
		active     int
		uploadedBy sql.NullString
		uploadedAt time.Time
	)

	err := row.Scan(&doc.ID, &doc.Filename, &doc.OriginalFilename, &doc.FilePath, &doc.FileType,
		&doc.FileSize, &extracted, &summary, &status, &processed, &active, &uploadedBy, &uploadedAt)
	if err != nil {
		return nil, err
	}

	doc.ExtractedContent = extracted.String
	doc.Summary = summary.String
	doc.Status = models.DocumentStatus(status)
	doc.Processed = processed == 1
	doc.Active = active == 1
	doc.UploadedBy = uploadedBy.String
	doc.UploadedAt = uploadedAt
	return &doc, nil
}
