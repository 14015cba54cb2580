package db

import (
	"database/sql"
	"fmt"
)

// Instants are stored as Unix milliseconds so range comparisons are plain
// integer comparisons on every dialect.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    created_at    BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS item_requests (
    id           INTEGER PRIMARY KEY,
    description  TEXT NOT NULL,
    requester_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL,
    available   BOOLEAN NOT NULL,
    owner_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    request_id  INTEGER REFERENCES item_requests(id) ON DELETE SET NULL,
    photo       BLOB,
    thumbnail   BLOB,
    created_at  BIGINT NOT NULL,
    updated_at  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
    id         INTEGER PRIMARY KEY,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    booker_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_time BIGINT NOT NULL,
    end_time   BIGINT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'WAITING' CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
    CHECK (end_time > start_time)
);

CREATE TABLE IF NOT EXISTS comments (
    id         INTEGER PRIMARY KEY,
    text       TEXT NOT NULL,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    author_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at BIGINT NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    created_at    BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS item_requests (
    id           BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    description  TEXT NOT NULL,
    requester_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL,
    available   BOOLEAN NOT NULL,
    owner_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    request_id  BIGINT REFERENCES item_requests(id) ON DELETE SET NULL,
    photo       BYTEA,
    thumbnail   BYTEA,
    created_at  BIGINT NOT NULL,
    updated_at  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
    id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    item_id    BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    booker_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_time BIGINT NOT NULL,
    end_time   BIGINT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'WAITING' CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
    CHECK (end_time > start_time)
);

CREATE TABLE IF NOT EXISTS comments (
    id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    text       TEXT NOT NULL,
    item_id    BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at BIGINT NOT NULL
);
`

// indexes are shared by both dialects. Append new ones at the end.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id, id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_request ON items(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker ON bookings(booker_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item ON bookings(item_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_item ON comments(item_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_item_requests_requester ON item_requests(requester_id, created_at)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating index %d: %w", i+1, err)
		}
	}
	return nil
}
