package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ocxtools/opencode-recall/testutil"
)

func TestOpenReadOnlyMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.db")
	db, err := OpenReadOnly(missing)
	if db != nil {
		db.Close()
		t.Fatal("OpenReadOnly() returned a handle for a missing file")
	}
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("error = %v, want *OpenError", err)
	}
	if oe.Path != missing {
		t.Errorf("OpenError path = %q, want %q", oe.Path, missing)
	}
	info := oe.Info()
	if info.Code != CodeDBOpenFailed || info.Detail == "" {
		t.Errorf("Info() = %+v", info)
	}
	// Opening must never create the file.
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Error("OpenReadOnly() created the missing file")
	}
}

func TestOpenReadOnlyCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database at all"), 0644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}
	db, err := OpenReadOnly(path)
	if err == nil {
		db.Close()
		t.Fatal("OpenReadOnly() accepted a corrupt file")
	}
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("error = %v, want *OpenError", err)
	}
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.CreateStoreFile(t, dir)

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO project (id, name, worktree) VALUES ('p', 'n', 'w')"); err == nil {
		t.Error("write succeeded on a read-only handle")
	}
}

func TestOpenReadOnlyValidStore(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.CreateStoreFile(t, dir)

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM session").Scan(&n); err != nil {
		t.Fatalf("query on read-only handle: %v", err)
	}
	if n != 0 {
		t.Errorf("session count = %d, want 0", n)
	}
}
