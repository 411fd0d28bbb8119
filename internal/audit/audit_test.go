package audit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestOpenTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	if err := os.WriteFile(path, []byte("stale content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	log.Removed("/data/a.tmp", "unsupported type")
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(lines), lines)
	}
	if lines[0] != "removed /data/a.tmp (unsupported type)" {
		t.Errorf("unexpected line: %q", lines[0])
	}
}

func TestRecordFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	log.Removed("/a", "empty file")
	log.Renamed("/b:c", "/b_c")
	log.Unhidden("/d")
	log.Skipped("/e", "name collision with /e2")
	log.Failed("remove", "/f", errors.New("permission denied"))

	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	want := []string{
		"removed /a (empty file)",
		"renamed /b:c -> /b_c",
		"unhidden /d",
		"skipped /e (name collision with /e2)",
		"failed remove /f: permission denied",
	}
	got := readLines(t, path)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestOpenFailsOnMissingParent(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "audit.log")); err == nil {
		t.Fatal("expected error when parent directory does not exist")
	}
}
