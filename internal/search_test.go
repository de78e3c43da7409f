package internal

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ocxtools/opencode-recall/testutil"
)

func emptySearchEnvelope() *SearchResult {
	return &SearchResult{Sessions: []SessionMatch{}}
}

func TestSearchEmptyQuery(t *testing.T) {
	// A blank query must be rejected before any store access: the path
	// below does not exist, yet the error must be INVALID_QUERY, not
	// DB_OPEN_FAILED.
	res, err := Search(filepath.Join(t.TempDir(), "nope.db"), "   \t ", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Error == nil || res.Error.Code != CodeInvalidQuery {
		t.Fatalf("Search() error = %+v, want code %s", res.Error, CodeInvalidQuery)
	}
	if len(res.Sessions) != 0 {
		t.Errorf("Search() returned %d sessions, want 0", len(res.Sessions))
	}
	if res.Stats.TotalMatches != 0 {
		t.Errorf("Search() totalMatches = %d, want 0", res.Stats.TotalMatches)
	}
}

func TestSearchOpenFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")
	res, err := Search(missing, "rollback", 0)
	if err != nil {
		t.Fatalf("Search() error = %v, want envelope-encoded failure", err)
	}
	if res.Error == nil || res.Error.Code != CodeDBOpenFailed {
		t.Fatalf("Search() error = %+v, want code %s", res.Error, CodeDBOpenFailed)
	}
	if res.Error.Path != missing {
		t.Errorf("Search() error path = %q, want %q", res.Error.Path, missing)
	}
	if len(res.Sessions) != 0 {
		t.Errorf("Search() returned %d sessions, want 0", len(res.Sessions))
	}
}

func TestSearchRanking(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_two", "", "two", "Two matches", "", now-5000, now)
	testutil.InsertSession(t, db, "ses_old", "", "old", "One old match", "", now-5000, now)
	testutil.InsertSession(t, db, "ses_new", "", "new", "One new match", "", now-5000, now)

	testutil.SeedExchange(t, db, "ses_two", "msg1", "prt1", "user", now-4000, "deploy failed")
	testutil.SeedExchange(t, db, "ses_two", "msg2", "prt2", "assistant", now-3500, "deploy fixed")
	testutil.SeedExchange(t, db, "ses_old", "msg3", "prt3", "user", now-3000, "deploy question")
	testutil.SeedExchange(t, db, "ses_new", "msg4", "prt4", "user", now-1000, "deploy answer")

	out := emptySearchEnvelope()
	if err := searchStore(db, out, []string{"deploy"}, 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}

	if len(out.Sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(out.Sessions))
	}
	// Highest match count first; equal counts ordered by most recent
	// matching part.
	wantOrder := []string{"ses_two", "ses_new", "ses_old"}
	for i, want := range wantOrder {
		if out.Sessions[i].ID != want {
			t.Errorf("rank %d = %s, want %s", i, out.Sessions[i].ID, want)
		}
	}
	if out.Sessions[0].MatchCount != 2 {
		t.Errorf("top session matchCount = %d, want 2", out.Sessions[0].MatchCount)
	}
	if out.Stats.TotalMatches != 4 {
		t.Errorf("totalMatches = %d, want 4", out.Stats.TotalMatches)
	}
}

func TestSearchTokenANDSemantics(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_both", "", "b", "", "", now, now)
	testutil.InsertSession(t, db, "ses_one", "", "o", "", "", now, now)
	testutil.SeedExchange(t, db, "ses_both", "m1", "p1", "user", now-100, "alpha and beta together")
	testutil.SeedExchange(t, db, "ses_one", "m2", "p2", "user", now-100, "alpha alone")

	out := emptySearchEnvelope()
	if err := searchStore(db, out, Tokenize("Alpha Beta"), 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].ID != "ses_both" {
		t.Fatalf("sessions = %+v, want only ses_both", out.Sessions)
	}
}

func TestSearchWildcardEscaping(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_pct", "", "p", "", "", now, now)
	testutil.InsertSession(t, db, "ses_plain", "", "q", "", "", now, now)
	testutil.SeedExchange(t, db, "ses_pct", "m1", "p1", "user", now-100, "progress at 100% done")
	testutil.SeedExchange(t, db, "ses_plain", "m2", "p2", "user", now-100, "progress at 100 done")

	// "100%" must match the literal percent sign, not act as a prefix
	// wildcard that would also catch "100 done".
	out := emptySearchEnvelope()
	if err := searchStore(db, out, Tokenize("100%"), 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].ID != "ses_pct" {
		t.Fatalf("sessions = %+v, want only ses_pct", out.Sessions)
	}
}

func TestSearchRoleAndTypeFilters(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_x", "", "x", "", "", now, now)
	// Tool-role message and non-text part must both be invisible.
	testutil.SeedExchange(t, db, "ses_x", "m1", "p1", "tool", now-100, "secret token output")
	testutil.InsertMessage(t, db, "m2", "ses_x", "user")
	testutil.InsertRawPart(t, db, "p2", "m2", "ses_x", now-100, `{"type":"file","text":"secret attachment"}`)

	out := emptySearchEnvelope()
	if err := searchStore(db, out, []string{"secret"}, 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 0 {
		t.Fatalf("sessions = %+v, want none", out.Sessions)
	}
}

func TestSearchLookbackCutoff(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	ancient := time.Now().AddDate(0, 0, -DefaultLookbackDays-10).UnixMilli()
	testutil.InsertSession(t, db, "ses_recent", "", "r", "", "", now, now)
	testutil.InsertSession(t, db, "ses_ancient", "", "a", "", "", ancient, ancient)
	testutil.SeedExchange(t, db, "ses_recent", "m1", "p1", "user", now-100, "archive cleanup")
	testutil.SeedExchange(t, db, "ses_ancient", "m2", "p2", "user", ancient, "archive cleanup")

	out := emptySearchEnvelope()
	if err := searchStore(db, out, []string{"archive"}, 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].ID != "ses_recent" {
		t.Fatalf("sessions = %+v, want only ses_recent", out.Sessions)
	}
}

func TestSearchSnippets(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_s", "", "s", "", "", now, now)
	long := "needle " + strings.Repeat("padding ", 80)
	testutil.SeedExchange(t, db, "ses_s", "m1", "p1", "user", now-3000, "needle first")
	testutil.SeedExchange(t, db, "ses_s", "m2", "p2", "assistant", now-2000, "needle second")
	testutil.SeedExchange(t, db, "ses_s", "m3", "p3", "user", now-1000, long)

	out := emptySearchEnvelope()
	if err := searchStore(db, out, []string{"needle"}, 6); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(out.Sessions))
	}
	snips := out.Sessions[0].Snippets
	if len(snips) != SnippetsPerSession {
		t.Fatalf("got %d snippets, want %d", len(snips), SnippetsPerSession)
	}
	// Most recent first, truncated to the configured maximum.
	if !strings.HasPrefix(snips[0].Text, "needle padding") {
		t.Errorf("first snippet = %q, want the most recent part", snips[0].Text)
	}
	if len([]rune(snips[0].Text)) != SnippetMaxChars {
		t.Errorf("snippet length = %d, want %d", len([]rune(snips[0].Text)), SnippetMaxChars)
	}
	if snips[1].Text != "needle second" {
		t.Errorf("second snippet = %q, want %q", snips[1].Text, "needle second")
	}
}

func TestSearchSessionLimit(t *testing.T) {
	db := testutil.CreateStoreDB(t)
	defer db.Close()

	now := time.Now().UnixMilli()
	ids := []string{"ses_1", "ses_2", "ses_3"}
	for i, id := range ids {
		testutil.InsertSession(t, db, id, "", id, "", "", now, now)
		testutil.SeedExchange(t, db, id, "m"+id, "p"+id, "user", now-int64(i*100), "shared term")
	}

	out := emptySearchEnvelope()
	if err := searchStore(db, out, []string{"shared"}, 2); err != nil {
		t.Fatalf("searchStore() error = %v", err)
	}
	if len(out.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(out.Sessions))
	}
	// totalMatches covers returned sessions only, by design.
	if out.Stats.TotalMatches != 2 {
		t.Errorf("totalMatches = %d, want 2 (returned sessions only)", out.Stats.TotalMatches)
	}
}

func TestBuildNextSteps(t *testing.T) {
	sessions := []SessionMatch{
		{ID: "ses_title00", Title: "Fix the build", MatchCount: 5},
		{ID: "ses_dironly", Directory: "/home/u/proj", MatchCount: 3},
		{ID: "ses_nothing", MatchCount: 2},
		{ID: "ses_fourth0", Title: "Fourth", MatchCount: 1},
	}
	ns := buildNextSteps(sessions)

	if len(ns.TranscriptCalls) != 3 {
		t.Fatalf("got %d transcript calls, want 3", len(ns.TranscriptCalls))
	}
	if ns.TranscriptCalls[0].Tool != "session-transcript" || ns.TranscriptCalls[0].SessionID != "ses_title00" {
		t.Errorf("first call = %+v", ns.TranscriptCalls[0])
	}
	if ns.Prompt == nil || len(ns.Prompt.Options) != 4 {
		t.Fatalf("prompt = %+v, want 4 options", ns.Prompt)
	}
	wantLabels := []string{
		"ses_titl: Fix the build",
		"ses_diro: /home/u/proj",
		"ses_noth: 2 matches",
		"ses_four: Fourth",
	}
	for i, want := range wantLabels {
		if ns.Prompt.Options[i].Label != want {
			t.Errorf("option %d label = %q, want %q", i, ns.Prompt.Options[i].Label, want)
		}
	}

	if got := buildNextSteps(sessions[:1]); got.Prompt != nil {
		t.Errorf("single session should not produce a disambiguation prompt")
	}
}

func TestSearchEndToEnd(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.CreateStoreFile(t, dir)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open seed handle: %v", err)
	}
	now := time.Now().UnixMilli()
	testutil.InsertSession(t, db, "ses_abc123", "", "abc", "Rollback help", "/srv/app", now-2000, now-1000)
	testutil.SeedExchange(t, db, "ses_abc123", "msg_u", "prt_u", "user", now-2000, "how do I rollback")
	testutil.SeedExchange(t, db, "ses_abc123", "msg_a", "prt_a", "assistant", now-1000, "rollback with the release tool")
	db.Close()

	res, err := Search(path, "rollback", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Error != nil {
		t.Fatalf("Search() error envelope = %+v", res.Error)
	}
	if len(res.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(res.Sessions))
	}
	s := res.Sessions[0]
	if s.ID != "ses_abc123" || s.MatchCount != 2 {
		t.Errorf("session = %+v, want ses_abc123 with 2 matches", s)
	}
	if s.LastMatch != formatMillis(now-1000) {
		t.Errorf("lastMatch = %q, want %q", s.LastMatch, formatMillis(now-1000))
	}
	if len(s.Snippets) != 2 {
		t.Fatalf("got %d snippets, want 2", len(s.Snippets))
	}
	if s.Snippets[0].Role != "assistant" {
		t.Errorf("first snippet role = %q, want the most recent (assistant)", s.Snippets[0].Role)
	}
	if res.NextSteps == nil || len(res.NextSteps.TranscriptCalls) != 1 {
		t.Errorf("nextSteps = %+v, want one transcript call", res.NextSteps)
	}
}
