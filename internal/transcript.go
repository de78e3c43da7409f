package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Transcript reconstructs one session's message history from the store
// at dbPath. An unknown session id is a normal outcome (Found=false),
// not an error; an unopenable store is encoded as DB_OPEN_FAILED.
func Transcript(dbPath, sessionID string, limit int, order string, includeEmpty bool) (*TranscriptResult, error) {
	out := &TranscriptResult{
		SessionID: sessionID,
		Filters: TranscriptFilters{
			Roles:        SearchRoles,
			IncludeEmpty: includeEmpty,
		},
		Entries: []TranscriptEntry{},
	}
	out.Stats.Limit = ClampTranscriptLimit(limit)
	descending := strings.EqualFold(order, "desc")

	db, err := OpenReadOnly(dbPath)
	if err != nil {
		var oe *OpenError
		if errors.As(err, &oe) {
			out.Error = oe.Info()
			return out, nil
		}
		return nil, err
	}
	defer db.Close()

	if err := transcriptStore(db, out, sessionID, descending, includeEmpty); err != nil {
		return nil, err
	}
	return out, nil
}

// transcriptStore fills the envelope from an already-open handle.
func transcriptStore(db *sql.DB, out *TranscriptResult, sessionID string, descending, includeEmpty bool) error {
	meta, found, err := lookupSession(db, sessionID)
	if err != nil {
		return err
	}
	if !found {
		out.Found = false
		out.Message = fmt.Sprintf("no session with id %q", sessionID)
		return nil
	}
	out.Found = true
	out.Session = meta

	q, args := buildTranscriptQuery(sessionID, SearchRoles, includeEmpty, descending, out.Stats.Limit)
	rows, err := db.Query(q, args...)
	if err != nil {
		return fmt.Errorf("transcript query for %s: %w", sessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			partID, msgID, role string
			ms                  int64
			text                sql.NullString
		)
		if err := rows.Scan(&partID, &msgID, &ms, &role, &text); err != nil {
			return fmt.Errorf("transcript scan for %s: %w", sessionID, err)
		}
		out.Entries = append(out.Entries, TranscriptEntry{
			PartID:    partID,
			MessageID: msgID,
			Time:      ms,
			TimeText:  formatMillis(ms),
			Role:      role,
			Text:      Truncate(text.String, TranscriptMaxChars),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("transcript rows for %s: %w", sessionID, err)
	}

	out.Stats.EntriesReturned = len(out.Entries)
	return nil
}

// lookupSession resolves session metadata, including the owning
// project's name and worktree when the session belongs to one.
func lookupSession(db *sql.DB, sessionID string) (*SessionMeta, bool, error) {
	const q = `SELECT s.title, s.slug, s.directory, s.time_created, s.time_updated, pr.name, pr.worktree
FROM session s
LEFT JOIN project pr ON pr.id = s.project_id
WHERE s.id = ?`

	var (
		title, slug, dir sql.NullString
		created, updated int64
		name, worktree   sql.NullString
	)
	err := db.QueryRow(q, sessionID).Scan(&title, &slug, &dir, &created, &updated, &name, &worktree)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session lookup for %s: %w", sessionID, err)
	}

	return &SessionMeta{
		Title:           title.String,
		Slug:            slug.String,
		Directory:       dir.String,
		ProjectName:     name.String,
		ProjectWorktree: worktree.String,
		Created:         formatMillis(created),
		Updated:         formatMillis(updated),
	}, true, nil
}
