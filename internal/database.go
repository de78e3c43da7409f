package internal

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// OpenReadOnly opens the history database strictly read-only. It never
// creates the file; a missing, corrupt, or unreadable store is
// reported as an *OpenError rather than raised further up.
func OpenReadOnly(path string) (*sql.DB, error) {
	// mode=ro refuses to create the file, but sql.Open is lazy, so
	// stat first to give a crisp detail message for the common case.
	if _, err := os.Stat(path); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &OpenError{Path: path, Err: fmt.Errorf("ping: %w", err)}
	}

	return db, nil
}
