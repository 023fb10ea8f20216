// ABOUTME: Chunk persistence operations for SQLite
// ABOUTME: Atomic batch replace per document and vector storage as BLOBs
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/documind/documind/internal/models"
)

// ChunkStore handles chunk persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// ReplaceForDocument discards all existing chunks for a document and
// inserts the new batch inside a single transaction. Concurrent readers
// see either all old chunks or all new ones, never a mixture.
func (s *ChunkStore) ReplaceForDocument(documentID string, chunks []models.Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, document_id, chunk_index, content, start_offset, end_offset,
			token_estimate, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, chunk := range chunks {
		var blob interface{}
		if chunk.Embedding.Ready() {
			blob = vectorToBlob(chunk.Embedding.Vector)
		}
		if _, err := stmt.Exec(chunk.ID, chunk.DocumentID, chunk.Index, chunk.Content,
			chunk.StartOffset, chunk.EndOffset, chunk.TokenEstimate, blob, chunk.CreatedAt); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEmbedding stores the computed vector for a chunk
func (s *ChunkStore) SaveEmbedding(chunkID string, vector []float64) error {
	res, err := s.db.Exec("UPDATE chunks SET embedding = ? WHERE id = ?", vectorToBlob(vector), chunkID)
	if err != nil {
		return err
	}
	return requireRow(res, chunkID)
}

// GetByDocument returns all chunks for a document ordered by index
func (s *ChunkStore) GetByDocument(documentID string) ([]models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT id, document_id, chunk_index, content, start_offset, end_offset,
			token_estimate, embedding, created_at
		FROM chunks
		WHERE document_id = ?
		ORDER BY chunk_index ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// AllEmbedded returns every chunk with a computed embedding belonging to
// active, processed documents. This is the retrieval corpus; its order is
// deterministic so equal similarity scores rank consistently.
func (s *ChunkStore) AllEmbedded() ([]models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.start_offset, c.end_offset,
			c.token_estimate, c.embedding, c.created_at
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.active = 1 AND d.processed = 1 AND c.embedding IS NOT NULL
		ORDER BY c.document_id ASC, c.chunk_index ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// CountByDocument returns total and embedded chunk counts for a document
func (s *ChunkStore) CountByDocument(documentID string) (total, embedded int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(id), COUNT(embedding)
		FROM chunks
		WHERE document_id = ?
	`, documentID).Scan(&total, &embedded)
	return total, embedded, err
}

// DeleteByDocument removes all chunks for a document
func (s *ChunkStore) DeleteByDocument(documentID string) error {
	_, err := s.db.Exec("DELETE FROM chunks WHERE document_id = ?", documentID)
	return err
}

func scanChunks(rows *sql.Rows) ([]models.Chunk, error) {
	var chunks []models.Chunk

	for rows.Next() {
		var (
			chunk models.Chunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Content,
			&chunk.StartOffset, &chunk.EndOffset, &chunk.TokenEstimate, &blob, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			chunk.Embedding = models.Embedding{Vector: blobToVector(blob)}
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// vectorToBlob converts a float64 slice to a little-endian binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
