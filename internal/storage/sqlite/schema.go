// ABOUTME: SQLite database schema for the document chat backend
// ABOUTME: Creates users, documents, chunks, sessions, and messages tables
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Users table (local identity; authentication is handled outside the core)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT,
    role TEXT NOT NULL DEFAULT 'ROLE_USER',
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Documents table (uploaded files and their processing state)
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    original_filename TEXT NOT NULL,
    file_path TEXT,
    file_type TEXT NOT NULL,
    file_size INTEGER NOT NULL DEFAULT 0,
    extracted_content TEXT,
    summary TEXT,
    status TEXT NOT NULL DEFAULT 'UPLOADED',
    processed INTEGER NOT NULL DEFAULT 0,
    active INTEGER NOT NULL DEFAULT 1,
    uploaded_by TEXT REFERENCES users(id),
    uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chunks table (overlapping document segments; embedding is NULL until computed)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    start_offset INTEGER NOT NULL,
    end_offset INTEGER NOT NULL,
    token_estimate INTEGER NOT NULL DEFAULT 0,
    embedding BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chat sessions table (soft-deleted via active flag)
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    title TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_message_at DATETIME,
    active INTEGER NOT NULL DEFAULT 1
);

-- Messages table (append-only per session, ordered by created_at)
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    context TEXT,
    source_documents TEXT,
    confidence REAL,
    created_at DATETIME NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_documents_active ON documents(active, processed);
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id, chunk_index);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, active);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
