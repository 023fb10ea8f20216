// ABOUTME: Document represents an uploaded source file and its processing state
// ABOUTME: Tracks the extract → chunk → embed lifecycle driven by the ingestor
package models

import "time"

// DocumentStatus is a step in the document processing lifecycle
type DocumentStatus string

const (
	StatusUploaded  DocumentStatus = "UPLOADED"
	StatusExtracted DocumentStatus = "EXTRACTED"
	StatusChunked   DocumentStatus = "CHUNKED"
	StatusEmbedding DocumentStatus = "EMBEDDING_IN_PROGRESS"
	StatusProcessed DocumentStatus = "PROCESSED"
	StatusFailed    DocumentStatus = "FAILED"
)

// Document represents an uploaded file and its extracted content
type Document struct {
	ID               string         `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"file_path"`
	FileType         string         `json:"file_type"`
	FileSize         int64          `json:"file_size"`
	ExtractedContent string         `json:"extracted_content,omitempty"`
	Summary          string         `json:"summary,omitempty"`
	Status           DocumentStatus `json:"status"`
	Processed        bool           `json:"processed"`
	Active           bool           `json:"active"`
	UploadedBy       string         `json:"uploaded_by"`
	UploadedAt       time.Time      `json:"uploaded_at"`
}

// DocumentInfo summarizes a document for listings
type DocumentInfo struct {
	ID               string
	OriginalFilename string
	FileType         string
	FileSize         int64
	Status           DocumentStatus
	Processed        bool
	ChunkCount       int
	EmbeddedCount    int
	UploadedAt       time.Time
}
