// Package mcp exposes the session-search and session-transcript
// operations as MCP tools over a stdio transport, so agent hosts can
// recall past opencode conversations.
package mcp

import (
	"context"
	"errors"
	"io"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/ocxtools/opencode-recall/internal"
)

const (
	serverName    = "opencode-recall"
	serverVersion = "1.0.0"
)

// Server wraps an MCP server bound to one resolved history database
// path. The path is fixed for the server's lifetime; each tool call
// opens and closes its own read-only handle.
type Server struct {
	mcp    *mcpsrv.MCPServer
	dbPath string
}

// New creates an MCP server serving the store at dbPath. The server
// does not start listening until ServeStdio is called.
func New(dbPath string) *Server {
	s := &Server{dbPath: dbPath}

	srv := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions),
	)
	for _, t := range s.tools() {
		srv.AddTool(t.Tool, t.Handler)
	}
	s.mcp = srv
	return s
}

const instructions = `You are connected to an opencode-recall server.

It provides read-only search over the local opencode chat history:
- session-search: find past conversations matching free-text terms
- session-transcript: replay one conversation's messages in order

All data is read-only. Timestamps are RFC3339 UTC. Responses are JSON
envelopes; check the "error" field (search) or "found" flag
(transcript) instead of relying on tool-level errors.`

// ServeStdio runs the server over stdin/stdout until ctx is
// cancelled. All logging goes to stderr; stdout belongs to the
// transport.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	internal.LogInfo("mcp server listening on stdio (db: %s)", s.dbPath)
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolSessionSearch(),
		s.toolSessionTranscript(),
	}
}

// resultJSON serialises v into a successful CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}

// resultErr wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// stringArg extracts a named string argument from a tool call request.
// Returns ("", false) if the argument is absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg extracts a named int argument. The MCP protocol serialises
// numbers as float64, so convert accordingly; anything else degrades
// to the default rather than erroring.
func intArg(req mcplib.CallToolRequest, name string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return defaultVal
}

// boolArg extracts a named bool argument.
func boolArg(req mcplib.CallToolRequest, name string, defaultVal bool) bool {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}
