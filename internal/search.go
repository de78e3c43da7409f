package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Search runs the session-search operation against the store at
// dbPath. Anticipated failures (blank query, unopenable store) are
// encoded in the returned envelope; only unanticipated query failures
// come back as an error, and the store handle is closed on every path.
func Search(dbPath, query string, limitSessions int) (*SearchResult, error) {
	out := &SearchResult{
		Query: query,
		Filters: SearchFilters{
			Roles:              SearchRoles,
			LookbackDays:       DefaultLookbackDays,
			SnippetsPerSession: SnippetsPerSession,
			SnippetMaxChars:    SnippetMaxChars,
		},
		Sessions: []SessionMatch{},
	}

	// Validate before touching the store; a blank query never opens a
	// handle.
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		out.Error = invalidQueryInfo()
		return out, nil
	}
	limit := ClampSessionLimit(limitSessions)

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

	if err := searchStore(db, out, tokens, limit); err != nil {
		return nil, err
	}
	return out, nil
}

// searchStore fills the envelope from an already-open handle. Split
// out so tests can run it against an in-memory store.
func searchStore(db *sql.DB, out *SearchResult, tokens []string, limit int) error {
	cutoff := time.Now().AddDate(0, 0, -DefaultLookbackDays).UnixMilli()

	q, args := buildSessionMatchQuery(tokens, SearchRoles, cutoff, limit)
	rows, err := db.Query(q, args...)
	if err != nil {
		return fmt.Errorf("session match query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         string
			title, dir sql.NullString
			matches    int
			last       int64
		)
		if err := rows.Scan(&id, &title, &dir, &matches, &last); err != nil {
			return fmt.Errorf("session match scan: %w", err)
		}
		out.Sessions = append(out.Sessions, SessionMatch{
			ID:         id,
			Title:      title.String,
			Directory:  dir.String,
			MatchCount: matches,
			LastMatch:  formatMillis(last),
			Snippets:   []Snippet{},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("session match rows: %w", err)
	}

	for i := range out.Sessions {
		snips, err := sessionSnippets(db, out.Sessions[i].ID, tokens, cutoff)
		if err != nil {
			return err
		}
		out.Sessions[i].Snippets = snips
		out.Stats.TotalMatches += out.Sessions[i].MatchCount
	}
	out.Stats.SessionsReturned = len(out.Sessions)

	if len(out.Sessions) > 0 {
		out.NextSteps = buildNextSteps(out.Sessions)
	}
	return nil
}

// sessionSnippets fetches the most recent matching parts for one
// session, truncated for preview.
func sessionSnippets(db *sql.DB, sessionID string, tokens []string, cutoff int64) ([]Snippet, error) {
	q, args := buildSnippetQuery(sessionID, tokens, SearchRoles, cutoff, SnippetsPerSession)
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("snippet query for %s: %w", sessionID, err)
	}
	defer rows.Close()

	snips := []Snippet{}
	for rows.Next() {
		var (
			role, text string
			ms         int64
		)
		if err := rows.Scan(&role, &ms, &text); err != nil {
			return nil, fmt.Errorf("snippet scan for %s: %w", sessionID, err)
		}
		snips = append(snips, Snippet{
			Role:     role,
			Time:     ms,
			TimeText: formatMillis(ms),
			Text:     Truncate(text, SnippetMaxChars),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snippet rows for %s: %w", sessionID, err)
	}
	return snips, nil
}

// buildNextSteps derives the follow-up suggestion block from the
// ranked session list. Pure projection, no store access.
func buildNextSteps(sessions []SessionMatch) *NextSteps {
	top := len(sessions)
	if top > 3 {
		top = 3
	}
	ns := &NextSteps{TranscriptCalls: make([]TranscriptCall, 0, top)}
	for _, s := range sessions[:top] {
		ns.TranscriptCalls = append(ns.TranscriptCalls, TranscriptCall{
			Tool:      "session-transcript",
			SessionID: s.ID,
		})
	}

	if len(sessions) > 1 {
		prompt := &PromptSuggestion{
			Question: "Which conversation do you want the transcript for?",
		}
		for _, s := range sessions {
			prompt.Options = append(prompt.Options, PromptOption{
				Label:     fmt.Sprintf("%s: %s", Truncate(s.ID, 8), displayText(s)),
				SessionID: s.ID,
			})
		}
		ns.Prompt = prompt
	}
	return ns
}

// displayText picks the best available label for a session: title,
// else directory, else a match-count fallback.
func displayText(s SessionMatch) string {
	if s.Title != "" {
		return s.Title
	}
	if s.Directory != "" {
		return s.Directory
	}
	return fmt.Sprintf("%d matches", s.MatchCount)
}

// formatMillis renders an epoch-millisecond timestamp as RFC3339 UTC.
func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
