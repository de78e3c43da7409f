package internal

import "strings"

// The query builder produces predicate fragments and a parallel
// argument list that stay positionally aligned when joined with AND.
// Both the aggregate per-session query and the per-entry snippet query
// are assembled from the same fragments, so search ranking and snippet
// extraction always agree on which rows qualify.

// Tokenize lowercases a free-text query and splits it on whitespace.
// An empty slice means the query was blank and must be rejected before
// any store access.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// EscapeLike escapes backslash, percent, and underscore so a token is
// matched literally inside a LIKE pattern with ESCAPE '\'.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// matchPredicates builds the shared predicate set for search queries:
// text-typed parts with non-null text, an allowed role, created at or
// after the cutoff, and one case-insensitive contains-predicate per
// token (AND semantics).
func matchPredicates(tokens, roles []string, cutoffMs int64) ([]string, []any) {
	frags := []string{
		"json_extract(p.data, '$.type') = ?",
		"json_extract(p.data, '$.text') IS NOT NULL",
		"json_extract(m.data, '$.role') IN (" + placeholders(len(roles)) + ")",
		"p.time_created >= ?",
	}
	args := make([]any, 0, len(frags)+len(roles)+len(tokens))
	args = append(args, "text")
	for _, r := range roles {
		args = append(args, r)
	}
	args = append(args, cutoffMs)

	for _, tok := range tokens {
		frags = append(frags, `lower(json_extract(p.data, '$.text')) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+EscapeLike(tok)+"%")
	}
	return frags, args
}

// buildSessionMatchQuery returns the aggregate query ranking sessions
// by match count, ties broken by most recent matching part.
func buildSessionMatchQuery(tokens, roles []string, cutoffMs int64, limit int) (string, []any) {
	frags, args := matchPredicates(tokens, roles, cutoffMs)
	q := `SELECT p.session_id, s.title, s.directory, COUNT(*) AS matches, MAX(p.time_created) AS last_match
FROM part p
JOIN message m ON m.id = p.message_id
LEFT JOIN session s ON s.id = p.session_id
WHERE ` + strings.Join(frags, "\n  AND ") + `
GROUP BY p.session_id
ORDER BY matches DESC, last_match DESC
LIMIT ?`
	args = append(args, limit)
	return q, args
}

// buildSnippetQuery returns the per-entry query for one session's most
// recent matching parts, reusing the same predicates as the aggregate.
func buildSnippetQuery(sessionID string, tokens, roles []string, cutoffMs int64, limit int) (string, []any) {
	frags, args := matchPredicates(tokens, roles, cutoffMs)
	frags = append(frags, "p.session_id = ?")
	args = append(args, sessionID)
	q := `SELECT json_extract(m.data, '$.role'), p.time_created, json_extract(p.data, '$.text')
FROM part p
JOIN message m ON m.id = p.message_id
WHERE ` + strings.Join(frags, "\n  AND ") + `
ORDER BY p.time_created DESC
LIMIT ?`
	args = append(args, limit)
	return q, args
}

// buildTranscriptQuery returns the per-entry query replaying one
// session's text parts in chronological or reverse order. Unless
// includeEmpty is set, null and blank-after-trim text is excluded.
func buildTranscriptQuery(sessionID string, roles []string, includeEmpty bool, descending bool, limit int) (string, []any) {
	frags := []string{
		"p.session_id = ?",
		"json_extract(p.data, '$.type') = ?",
		"json_extract(m.data, '$.role') IN (" + placeholders(len(roles)) + ")",
	}
	args := make([]any, 0, 3+len(roles))
	args = append(args, sessionID, "text")
	for _, r := range roles {
		args = append(args, r)
	}
	if !includeEmpty {
		frags = append(frags,
			"json_extract(p.data, '$.text') IS NOT NULL",
			"trim(json_extract(p.data, '$.text')) <> ''",
		)
	}

	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	q := `SELECT p.id, p.message_id, p.time_created, json_extract(m.data, '$.role'), json_extract(p.data, '$.text')
FROM part p
JOIN message m ON m.id = p.message_id
WHERE ` + strings.Join(frags, "\n  AND ") + `
ORDER BY p.time_created ` + dir + `
LIMIT ?`
	args = append(args, limit)
	return q, args
}
