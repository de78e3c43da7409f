package mcp

// In this file: tool definitions and handler implementations.

import (
	"context"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/ocxtools/opencode-recall/internal"
)

const maxQueryChars = 200

// minSessionIDChars guards against obviously malformed ids; real
// session ids are far longer.
const minSessionIDChars = 5

// ─── session-search ───────────────────────────────────────────────────────────

func (s *Server) toolSessionSearch() mcpsrv.ServerTool {
	tool := mcplib.NewTool("session-search",
		mcplib.WithDescription(`Search past opencode conversations for free-text terms.

All terms must match (AND semantics, case-insensitive substring). Only
user and assistant text from the last 180 days is searched. Returns
ranked sessions with short snippets and suggested follow-up
session-transcript calls. The response is a JSON envelope; on failure
it carries an "error" object instead of raising.`),
		mcplib.WithString("query",
			mcplib.Description("Free-text search terms, e.g. \"rollback migration\"."),
			mcplib.Required(),
			mcplib.MinLength(1),
			mcplib.MaxLength(maxQueryChars),
		),
		mcplib.WithNumber("limitSessions",
			mcplib.Description(fmt.Sprintf("Maximum sessions to return (1-%d, default %d).",
				internal.MaxSessionLimit, internal.DefaultSessionLimit)),
			mcplib.Min(1),
			mcplib.Max(internal.MaxSessionLimit),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSessionSearch}
}

func (s *Server) handleSessionSearch(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	query, ok := stringArg(req, "query")
	if !ok {
		return resultErr(errors.New("session-search: query is required")), nil
	}
	if len(query) > maxQueryChars {
		return resultErr(fmt.Errorf("session-search: query exceeds %d characters", maxQueryChars)), nil
	}
	limit := intArg(req, "limitSessions", 0)

	internal.LogDebug("mcp: session-search: query=%q limit=%d", query, limit)

	// Anticipated failures (blank query, unopenable store) live inside
	// the envelope and are returned as a normal result; only
	// unanticipated ones become IsError.
	res, err := internal.Search(s.dbPath, query, limit)
	if err != nil {
		return resultErr(fmt.Errorf("session-search: %w", err)), nil
	}
	out, err := resultJSON(res)
	if err != nil {
		return resultErr(fmt.Errorf("session-search: serialise: %w", err)), nil
	}
	return out, nil
}

// ─── session-transcript ───────────────────────────────────────────────────────

func (s *Server) toolSessionTranscript() mcpsrv.ServerTool {
	tool := mcplib.NewTool("session-transcript",
		mcplib.WithDescription(`Replay one opencode conversation's text messages in order.

Returns session metadata and up to "limit" entries, each truncated to
600 characters. An unknown session id yields found=false with empty
entries, not an error.`),
		mcplib.WithString("sessionId",
			mcplib.Description("The session identifier, e.g. from a session-search result."),
			mcplib.Required(),
			mcplib.MinLength(minSessionIDChars),
		),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Maximum entries to return (1-%d, default %d).",
				internal.MaxTranscriptLimit, internal.DefaultTranscriptLimit)),
			mcplib.Min(1),
			mcplib.Max(internal.MaxTranscriptLimit),
		),
		mcplib.WithString("order",
			mcplib.Description("Entry order by creation time: \"asc\" (default) or \"desc\"."),
			mcplib.Enum("asc", "desc"),
		),
		mcplib.WithBoolean("includeEmpty",
			mcplib.Description("Include entries whose text is null or blank (default false)."),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSessionTranscript}
}

func (s *Server) handleSessionTranscript(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sessionID, ok := stringArg(req, "sessionId")
	if !ok || sessionID == "" {
		return resultErr(errors.New("session-transcript: sessionId is required")), nil
	}
	if len(sessionID) < minSessionIDChars {
		return resultErr(fmt.Errorf("session-transcript: sessionId must be at least %d characters", minSessionIDChars)), nil
	}
	limit := intArg(req, "limit", 0)
	order, _ := stringArg(req, "order")
	includeEmpty := boolArg(req, "includeEmpty", false)

	internal.LogDebug("mcp: session-transcript: id=%s limit=%d order=%s", sessionID, limit, order)

	res, err := internal.Transcript(s.dbPath, sessionID, limit, order, includeEmpty)
	if err != nil {
		return resultErr(fmt.Errorf("session-transcript: %w", err)), nil
	}
	out, err := resultJSON(res)
	if err != nil {
		return resultErr(fmt.Errorf("session-transcript: serialise: %w", err)), nil
	}
	return out, nil
}
