package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocxtools/opencode-recall/testutil"
)

func TestExportCommandJSONLToStdout(t *testing.T) {
	path := seedStore(t)

	out, err := runCommand(t, "export", "--db", path, "--format", "jsonl", "ses_abc123")
	if err != nil {
		t.Fatalf("export command error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if entry["role"] != "user" {
		t.Errorf("line 1 role = %v, want user", entry["role"])
	}
}

func TestExportCommandMarkdownToFile(t *testing.T) {
	path := seedStore(t)
	outFile := filepath.Join(testutil.CreateTempDir(t), "transcript.md")

	if _, err := runCommand(t, "export", "--db", path, "--format", "md", "--output", outFile, "ses_abc123"); err != nil {
		t.Fatalf("export command error = %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if !strings.Contains(string(data), "# Session ses_abc123") {
		t.Errorf("markdown output missing session header:\n%s", data)
	}
}

func TestExportCommandUnknownFormat(t *testing.T) {
	path := seedStore(t)

	if _, err := runCommand(t, "export", "--db", path, "--format", "csv", "ses_abc123"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestExportCommandSessionNotFound(t *testing.T) {
	path := seedStore(t)

	if _, err := runCommand(t, "export", "--db", path, "ses_missing"); err == nil {
		t.Error("unknown session should fail")
	}
}
