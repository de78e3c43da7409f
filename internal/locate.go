package internal

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EnvDBPath overrides store location resolution when set.
const EnvDBPath = "OPENCODE_RECALL_DB"

// opencodeBin is the host CLI asked for the canonical database path
// when no override is present.
const opencodeBin = "opencode"

// cliProbeTimeout bounds the host CLI invocation so a wedged binary
// cannot block an operation.
const cliProbeTimeout = 5 * time.Second

var (
	storePathOnce sync.Once
	storePath     string
)

// StorePath returns the resolved history database path. Resolution
// happens once per process; the first caller's override wins and the
// result is immutable afterwards.
//
// Precedence: explicit override (--db flag), OPENCODE_RECALL_DB,
// the opencode CLI's own answer, then the default install path.
func StorePath(override string) string {
	storePathOnce.Do(func() {
		storePath = resolveStorePath(override)
	})
	return storePath
}

func resolveStorePath(override string) string {
	if override != "" {
		return override
	}
	if p := os.Getenv(EnvDBPath); p != "" {
		return p
	}
	if p := queryOpencodePath(); p != "" {
		return p
	}
	return defaultDBPath()
}

// queryOpencodePath asks the opencode CLI where its database lives.
// Any failure (missing binary, non-zero exit, empty output) means
// "unavailable" and falls through to the default path; it never
// surfaces as an error.
func queryOpencodePath() string {
	ctx, cancel := context.WithTimeout(context.Background(), cliProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, opencodeBin, "db", "path")
	cmd.Stderr = nil
	out, err := cmd.Output()
	if err != nil {
		LogDebug("opencode CLI probe failed: %v", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory; the subsequent open will fail closed
		// with a DB_OPEN_FAILED carrying this relative path.
		return filepath.Join(".local", "share", "opencode", "opencode.db")
	}
	return filepath.Join(home, ".local", "share", "opencode", "opencode.db")
}
