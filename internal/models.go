package internal

// Search tuning constants. The limits mirror what the tool schema
// advertises to callers; the Clamp* helpers never error on
// out-of-range input, they degrade to the nearest bound or the default.
const (
	DefaultSessionLimit = 6
	MaxSessionLimit     = 12

	DefaultTranscriptLimit = 80
	MaxTranscriptLimit     = 120

	SnippetsPerSession = 2
	SnippetMaxChars    = 220
	TranscriptMaxChars = 600

	DefaultLookbackDays = 180
)

// SearchRoles is the role allow-list applied to every search and
// transcript query. Tool and system roles are never surfaced.
var SearchRoles = []string{"user", "assistant"}

// ErrorInfo is the structured error carried inside a result envelope.
// Operations encode anticipated failures here instead of returning an
// error to the caller.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Path    string `json:"path,omitempty"`
}

// SearchFilters echoes the filter set that was active for a search.
type SearchFilters struct {
	Roles              []string `json:"roles"`
	LookbackDays       int      `json:"lookbackDays"`
	SnippetsPerSession int      `json:"snippetsPerSession"`
	SnippetMaxChars    int      `json:"snippetMaxChars"`
}

// SearchStats summarises a search result. TotalMatches sums the match
// counts of the returned sessions only, not of every qualifying
// session in the store; sessions cut off by the limit do not
// contribute.
type SearchStats struct {
	SessionsReturned int `json:"sessionsReturned"`
	TotalMatches     int `json:"totalMatches"`
}

// Snippet is a truncated excerpt of a matching text part.
type Snippet struct {
	Role     string `json:"role"`
	Time     int64  `json:"time"`
	TimeText string `json:"timeText"`
	Text     string `json:"text"`
}

// SessionMatch is one ranked session in a search result.
type SessionMatch struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Directory  string    `json:"directory,omitempty"`
	MatchCount int       `json:"matchCount"`
	LastMatch  string    `json:"lastMatch"`
	Snippets   []Snippet `json:"snippets"`
}

// TranscriptCall suggests a follow-up session-transcript invocation.
type TranscriptCall struct {
	Tool      string `json:"tool"`
	SessionID string `json:"sessionId"`
}

// PromptOption is one labelled choice in a disambiguation prompt.
type PromptOption struct {
	Label     string `json:"label"`
	SessionID string `json:"sessionId"`
}

// PromptSuggestion is a ready-made disambiguation prompt an
// interactive caller can present when several sessions match.
type PromptSuggestion struct {
	Question string         `json:"question"`
	Options  []PromptOption `json:"options"`
}

// NextSteps is a presentation convenience derived purely from the
// session list; it carries no state of its own.
type NextSteps struct {
	TranscriptCalls []TranscriptCall  `json:"transcriptCalls"`
	Prompt          *PromptSuggestion `json:"prompt,omitempty"`
}

// SearchResult is the envelope returned by the session-search
// operation. It is always well-formed JSON; callers branch on Error.
type SearchResult struct {
	Query     string         `json:"query"`
	Filters   SearchFilters  `json:"filters"`
	Stats     SearchStats    `json:"stats"`
	Sessions  []SessionMatch `json:"sessions"`
	NextSteps *NextSteps     `json:"nextSteps,omitempty"`
	Error     *ErrorInfo     `json:"error,omitempty"`
}

// SessionMeta is the session metadata block of a transcript result.
type SessionMeta struct {
	Title           string `json:"title,omitempty"`
	Slug            string `json:"slug,omitempty"`
	Directory       string `json:"directory,omitempty"`
	ProjectName     string `json:"projectName,omitempty"`
	ProjectWorktree string `json:"projectWorktree,omitempty"`
	Created         string `json:"created,omitempty"`
	Updated         string `json:"updated,omitempty"`
}

// TranscriptEntry is one qualifying text part in a transcript.
type TranscriptEntry struct {
	PartID    string `json:"partId"`
	MessageID string `json:"messageId"`
	Time      int64  `json:"time"`
	TimeText  string `json:"timeText"`
	Role      string `json:"role"`
	Text      string `json:"text"`
}

// TranscriptFilters echoes the filter set active for a transcript.
type TranscriptFilters struct {
	Roles        []string `json:"roles"`
	IncludeEmpty bool     `json:"includeEmpty"`
}

// TranscriptStats summarises a transcript result.
type TranscriptStats struct {
	EntriesReturned int `json:"entriesReturned"`
	Limit           int `json:"limit"`
}

// TranscriptResult is the envelope returned by the session-transcript
// operation. An unknown session id yields Found=false with empty
// entries; that is a normal outcome, not an error.
type TranscriptResult struct {
	SessionID string            `json:"sessionId"`
	Found     bool              `json:"found"`
	Message   string            `json:"message,omitempty"`
	Session   *SessionMeta      `json:"session,omitempty"`
	Filters   TranscriptFilters `json:"filters"`
	Stats     TranscriptStats   `json:"stats"`
	Entries   []TranscriptEntry `json:"entries"`
	Error     *ErrorInfo        `json:"error,omitempty"`
}

// ClampSessionLimit brings a requested session limit into [1,
// MaxSessionLimit]. Non-positive values mean "not provided" and map
// to the default.
func ClampSessionLimit(n int) int {
	if n <= 0 {
		return DefaultSessionLimit
	}
	if n > MaxSessionLimit {
		return MaxSessionLimit
	}
	return n
}

// ClampTranscriptLimit brings a requested entry limit into [1,
// MaxTranscriptLimit], defaulting when not provided.
func ClampTranscriptLimit(n int) int {
	if n <= 0 {
		return DefaultTranscriptLimit
	}
	if n > MaxTranscriptLimit {
		return MaxTranscriptLimit
	}
	return n
}

// Truncate cuts s to at most max characters (runes, not bytes).
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
