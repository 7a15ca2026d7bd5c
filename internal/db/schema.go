package db

// SchemaVersion is the current database schema version
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Posts edited through the template modal; content is serialized blocks
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL DEFAULT '',
    meta TEXT NOT NULL DEFAULT '{}',
    content TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Media library for assets fetched while inserting templates
CREATE TABLE IF NOT EXISTS media (
    id TEXT PRIMARY KEY,
    source_url TEXT NOT NULL UNIQUE,
    mime_type TEXT NOT NULL DEFAULT '',
    size INTEGER NOT NULL DEFAULT 0,
    data BLOB,
    created_at INTEGER NOT NULL
);

-- Values carried between signup steps (e.g. the signup destination)
CREATE TABLE IF NOT EXISTS signup_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Progress of each signup step, in the order steps were first recorded
CREATE TABLE IF NOT EXISTS signup_progress (
    step_name TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    form_url TEXT NOT NULL DEFAULT '',
    provided_dependencies TEXT NOT NULL DEFAULT '[]',
    last_updated INTEGER NOT NULL,
    position INTEGER NOT NULL
);
`
