// ABOUTME: Ingestor drives the document lifecycle: extract, chunk, embed
// ABOUTME: Per-chunk embedding failures are isolated; reprocess swaps chunks atomically
package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// SupportedFileType reports whether text can be extracted from files of
// the given type
func SupportedFileType(fileType string) bool {
	switch strings.ToLower(fileType) {
	case "txt", "md", "pdf":
		return true
	}
	return false
}

// Ingestor handles document upload and processing
type Ingestor struct {
	store     *sqlite.Storage
	embedder  EmbeddingGateway
	completer CompletionGateway
	chunker   *Chunker
	uploadDir string
}

// NewIngestor creates an Ingestor. completer may be nil, in which case no
// document summaries are generated.
func NewIngestor(store *sqlite.Storage, embedder EmbeddingGateway, completer CompletionGateway, chunker *Chunker, uploadDir string) *Ingestor {
	return &Ingestor{
		store:     store,
		embedder:  embedder,
		completer: completer,
		chunker:   chunker,
		uploadDir: uploadDir,
	}
}

// Upload copies the file into the upload directory, records the document,
// and processes it synchronously. Only admins may upload.
func (in *Ingestor) Upload(ctx context.Context, path string, user *models.User) (*models.Document, error) {
	if !user.IsAdmin() {
		return nil, fmt.Errorf("only admins may upload documents: %w", models.ErrForbidden)
	}

	originalName := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if !SupportedFileType(ext) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	filename := uuid.New().String() + "." + ext
	storedPath := filepath.Join(in.uploadDir, filename)
	if err := copyFile(path, storedPath); err != nil {
		return nil, fmt.Errorf("storing file: %w", err)
	}

	doc := &models.Document{
		ID:               "doc_" + uuid.New().String(),
		Filename:         filename,
		OriginalFilename: originalName,
		FilePath:         storedPath,
		FileType:         ext,
		FileSize:         info.Size(),
		Status:           models.StatusUploaded,
		Active:           true,
		UploadedBy:       user.ID,
		UploadedAt:       time.Now(),
	}
	if err := in.store.Documents().Save(doc); err != nil {
		return nil, err
	}

	if err := in.Process(ctx, doc.ID); err != nil {
		return doc, err
	}
	return in.store.Documents().GetByID(doc.ID)
}

// Process runs extraction, chunking, and embedding for a document.
// A failure before chunking marks the document FAILED; partially-written
// chunks and embeddings are kept as best-effort artifacts.
func (in *Ingestor) Process(ctx context.Context, documentID string) error {
	doc, err := in.store.Documents().GetByID(documentID)
	if err != nil {
		return err
	}

	text, err := ExtractFile(doc.FilePath, doc.FileType)
	if err != nil {
		in.markFailed(documentID)
		return fmt.Errorf("extracting text: %w", err)
	}

	doc.ExtractedContent = text
	doc.Status = models.StatusExtracted
	if err := in.store.Documents().Save(doc); err != nil {
		return err
	}

	// Summary is a best-effort enhancement, never fatal
	if in.completer != nil {
		summary, err := in.completer.Summarize(ctx, BuildSummarizationPrompt(text))
		if err != nil {
			log.Printf("warning: summarizing document %s: %v", doc.ID, err)
		} else {
			doc.Summary = summary
			if err := in.store.Documents().Save(doc); err != nil {
				return err
			}
		}
	}

	return in.chunkAndEmbed(ctx, doc, text)
}

// Reprocess discards all existing chunks for a document and rebuilds them
// from the stored extracted content, re-extracting when none is stored.
func (in *Ingestor) Reprocess(ctx context.Context, documentID string, user *models.User) error {
	if !user.IsAdmin() {
		return fmt.Errorf("only admins may reprocess documents: %w", models.ErrForbidden)
	}

	doc, err := in.store.Documents().GetByID(documentID)
	if err != nil {
		return err
	}

	text := doc.ExtractedContent
	if text == "" {
		text, err = ExtractFile(doc.FilePath, doc.FileType)
		if err != nil {
			in.markFailed(documentID)
			return fmt.Errorf("extracting text: %w", err)
		}
		doc.ExtractedContent = text
		if err := in.store.Documents().Save(doc); err != nil {
			return err
		}
	}

	return in.chunkAndEmbed(ctx, doc, text)
}

// Delete soft-deletes a document. Chunks stay on disk but the document is
// excluded from listings and retrieval.
func (in *Ingestor) Delete(documentID string, user *models.User) error {
	if !user.IsAdmin() {
		return fmt.Errorf("only admins may delete documents: %w", models.ErrForbidden)
	}
	return in.store.Documents().SoftDelete(documentID)
}

// chunkAndEmbed replaces the document's chunks and computes embeddings.
// One chunk's embedding failure never aborts the batch; the chunk is left
// pending and excluded from retrieval until a later reprocess.
func (in *Ingestor) chunkAndEmbed(ctx context.Context, doc *models.Document, text string) error {
	spans := in.chunker.Split(text)

	now := time.Now()
	chunks := make([]models.Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = models.Chunk{
			ID:            "chunk_" + uuid.New().String(),
			DocumentID:    doc.ID,
			Index:         i,
			Content:       span.Content,
			StartOffset:   span.StartOffset,
			EndOffset:     span.EndOffset,
			TokenEstimate: span.TokenEstimate,
			CreatedAt:     now,
		}
	}

	if err := in.store.Chunks().ReplaceForDocument(doc.ID, chunks); err != nil {
		in.markFailed(doc.ID)
		return fmt.Errorf("replacing chunks: %w", err)
	}
	if err := in.store.Documents().SetStatus(doc.ID, models.StatusChunked); err != nil {
		return err
	}

	if err := in.store.Documents().SetStatus(doc.ID, models.StatusEmbedding); err != nil {
		return err
	}

	pending := 0
	for _, chunk := range chunks {
		vector, err := in.embedder.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			pending++
			log.Printf("warning: embedding chunk %s: %v", chunk.ID, err)
			continue
		}
		if err := in.store.Chunks().SaveEmbedding(chunk.ID, vector); err != nil {
			pending++
			log.Printf("warning: saving embedding for chunk %s: %v", chunk.ID, err)
		}
	}

	if err := in.store.Documents().MarkProcessed(doc.ID, true); err != nil {
		return err
	}
	if pending > 0 {
		log.Printf("document %s processed with %d of %d chunks un-embedded", doc.ID, pending, len(chunks))
	}
	return nil
}

func (in *Ingestor) markFailed(documentID string) {
	if err := in.store.Documents().MarkProcessed(documentID, false); err != nil {
		log.Printf("warning: marking document %s failed: %v", documentID, err)
	}
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}
