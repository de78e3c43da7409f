package testutil

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateStoreDB creates an empty in-memory history store with the
// session/project/message/part schema.
func CreateStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	createSchema(t, db)
	return db
}

// CreateStoreFile creates a history store on disk under dir and
// returns its path. Useful for tests exercising the open path.
func CreateStoreFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "opencode.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create database file: %v", err)
	}
	defer db.Close()
	createSchema(t, db)
	return path
}

func createSchema(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS project (
			id TEXT PRIMARY KEY,
			name TEXT,
			worktree TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			id TEXT PRIMARY KEY,
			project_id TEXT,
			slug TEXT,
			title TEXT,
			directory TEXT,
			time_created INTEGER,
			time_updated INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			id TEXT PRIMARY KEY,
			session_id TEXT,
			data TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS part (
			id TEXT PRIMARY KEY,
			message_id TEXT,
			session_id TEXT,
			time_created INTEGER,
			data TEXT
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
}

// InsertProject inserts a project row.
func InsertProject(t *testing.T, db *sql.DB, id, name, worktree string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO project (id, name, worktree) VALUES (?, ?, ?)", id, name, worktree); err != nil {
		t.Fatalf("Failed to insert project: %v", err)
	}
}

// InsertSession inserts a session row. projectID may be empty for a
// session with no project.
func InsertSession(t *testing.T, db *sql.DB, id, projectID, slug, title, directory string, created, updated int64) {
	t.Helper()
	var pid any
	if projectID != "" {
		pid = projectID
	}
	if _, err := db.Exec(
		"INSERT INTO session (id, project_id, slug, title, directory, time_created, time_updated) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, pid, slug, title, directory, created, updated,
	); err != nil {
		t.Fatalf("Failed to insert session: %v", err)
	}
}

// InsertMessage inserts a message row with the given role in its JSON
// payload.
func InsertMessage(t *testing.T, db *sql.DB, id, sessionID, role string) {
	t.Helper()
	data, err := json.Marshal(map[string]string{"role": role})
	if err != nil {
		t.Fatalf("Failed to marshal message data: %v", err)
	}
	if _, err := db.Exec("INSERT INTO message (id, session_id, data) VALUES (?, ?, ?)", id, sessionID, string(data)); err != nil {
		t.Fatalf("Failed to insert message: %v", err)
	}
}

// InsertTextPart inserts a text-typed part row.
func InsertTextPart(t *testing.T, db *sql.DB, id, messageID, sessionID string, created int64, text string) {
	t.Helper()
	data, err := json.Marshal(map[string]string{"type": "text", "text": text})
	if err != nil {
		t.Fatalf("Failed to marshal part data: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO part (id, message_id, session_id, time_created, data) VALUES (?, ?, ?, ?, ?)",
		id, messageID, sessionID, created, string(data),
	); err != nil {
		t.Fatalf("Failed to insert part: %v", err)
	}
}

// InsertRawPart inserts a part row with an arbitrary JSON payload, for
// non-text parts or parts with null text.
func InsertRawPart(t *testing.T, db *sql.DB, id, messageID, sessionID string, created int64, data string) {
	t.Helper()
	if _, err := db.Exec(
		"INSERT INTO part (id, message_id, session_id, time_created, data) VALUES (?, ?, ?, ?, ?)",
		id, messageID, sessionID, created, data,
	); err != nil {
		t.Fatalf("Failed to insert part: %v", err)
	}
}

// SeedExchange inserts a message and a text part in one step.
func SeedExchange(t *testing.T, db *sql.DB, sessionID, messageID, partID, role string, created int64, text string) {
	t.Helper()
	InsertMessage(t, db, messageID, sessionID, role)
	InsertTextPart(t, db, partID, messageID, sessionID, created, text)
}

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "opencode-recall-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}
