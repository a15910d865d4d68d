// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// SchemaVersion is bumped whenever Schema changes incompatibly.
const SchemaVersion = "1"

// Schema defines the history database.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per settled analysis
CREATE TABLE IF NOT EXISTS analyses (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,     -- UUID
    text TEXT NOT NULL,
    sentiment TEXT,              -- NULL when the analysis failed
    score REAL,                  -- compound score, local backend only
    backend TEXT NOT NULL,
    error TEXT,                  -- NULL when the analysis succeeded
    duration_ms INTEGER NOT NULL,
    created_at INTEGER NOT NULL  -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_sentiment ON analyses(sentiment);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '` + SchemaVersion + `');
`
