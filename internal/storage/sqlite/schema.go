// ABOUTME: SQLite schema for chunk, embedding, and run storage
// ABOUTME: Creates all tables and indexes for the translation pipeline
package sqlite

// Schema contains all SQL statements for database initialization.
// A NULL translation marks a chunk as pending; the partial index keeps
// worklist queries cheap even once most chunks are done.
const Schema = `
-- Chunks table (bounded units of source text in document order)
CREATE TABLE IF NOT EXISTS chunks (
    chunk_id INTEGER PRIMARY KEY,
    section TEXT NOT NULL,
    content TEXT NOT NULL,
    char_count INTEGER NOT NULL,
    translation TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Embeddings table (vector storage keyed by chunk)
CREATE TABLE IF NOT EXISTS embeddings (
    id TEXT PRIMARY KEY,
    chunk_id INTEGER NOT NULL REFERENCES chunks(chunk_id) ON DELETE CASCADE,
    model TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(chunk_id, model)
);

-- Runs table (one row per orchestration run, for auditing)
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    start_id INTEGER NOT NULL,
    end_id INTEGER NOT NULL,
    found INTEGER NOT NULL,
    translated INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    started_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_chunks_untranslated ON chunks(chunk_id) WHERE translation IS NULL;
CREATE INDEX IF NOT EXISTS idx_chunks_section ON chunks(section);
CREATE INDEX IF NOT EXISTS idx_embeddings_chunk ON embeddings(chunk_id);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
