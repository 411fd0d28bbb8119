package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfeldt/driveprep/internal/config"
)

func TestShortenName(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		budget   int
		expected string
		ok       bool
	}{
		{
			name:     "long name keeps marker and tail",
			input:    strings.Repeat("x", 40) + ".docx",
			budget:   30,
			expected: "~" + strings.Repeat("x", 19) + ".docx",
			ok:       true,
		},
		{
			name:     "tight budget keeps what fits",
			input:    "quarterly-report-2024-final.docx",
			budget:   6,
			expected: "~.docx",
			ok:       true,
		},
		{
			name:   "budget below marker plus one",
			input:  "report.docx",
			budget: 1,
			ok:     false,
		},
		{
			name:   "zero budget",
			input:  "report.docx",
			budget: 0,
			ok:     false,
		},
		{
			name:     "short name within large budget",
			input:    "a.txt",
			budget:   100,
			expected: "~a.txt",
			ok:       true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := shortenName(tc.input, tc.budget)
			if ok != tc.ok {
				t.Fatalf("shortenName(%q, %d) ok = %v, expected %v", tc.input, tc.budget, ok, tc.ok)
			}
			if !ok {
				return
			}
			if got != tc.expected {
				t.Errorf("shortenName(%q, %d) = %q, expected %q", tc.input, tc.budget, got, tc.expected)
			}
			if pathLength(got) > tc.budget {
				t.Errorf("shortened name %q exceeds budget %d", got, tc.budget)
			}
		})
	}
}

func assertAllWithinLimit(t *testing.T, root string, maxLen int) {
	t.Helper()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && pathLength(path) > maxLen {
			t.Errorf("path still over limit (%d > %d): %s", pathLength(path), maxLen, path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestNormalizePathLengthsShortensFile(t *testing.T) {
	root := t.TempDir()
	maxLen := pathLength(root) + 40
	longName := strings.Repeat("x", 60) + ".docx"
	writeFile(t, filepath.Join(root, longName), "content")

	p, logPath := newTestPipeline(t, root, func(cfg *config.Config) {
		cfg.Limits.MaxPathLength = maxLen
	})
	if err := p.normalizePathLengths(context.Background()); err != nil {
		t.Fatalf("normalizePathLengths failed: %v", err)
	}

	assertAllWithinLimit(t, root, maxLen)

	// The shortened name carries the marker and the trailing fragment,
	// extension included.
	want := filepath.Join(root, "~"+strings.Repeat("x", 19)+".docx")
	if !exists(want) {
		t.Errorf("expected shortened entry at %s", want)
	}

	lines := auditLines(t, logPath)
	if got := countPrefix(lines, "renamed"); got != 1 {
		t.Errorf("expected 1 renamed record, got %d: %v", got, lines)
	}
}

func TestNormalizePathLengthsShortensAncestorFirst(t *testing.T) {
	root := t.TempDir()
	maxLen := pathLength(root) + 40
	longDir := strings.Repeat("d", 60)
	writeFile(t, filepath.Join(root, longDir, "f.txt"), "content")

	p, _ := newTestPipeline(t, root, func(cfg *config.Config) {
		cfg.Limits.MaxPathLength = maxLen
	})
	if err := p.normalizePathLengths(context.Background()); err != nil {
		t.Fatalf("normalizePathLengths failed: %v", err)
	}

	assertAllWithinLimit(t, root, maxLen)

	// Shortening the directory brought the child within the limit; the
	// child keeps its own name.
	shortDir := filepath.Join(root, "~"+strings.Repeat("d", 24))
	if !exists(filepath.Join(shortDir, "f.txt")) {
		t.Error("child should sit under the shortened directory, name intact")
	}
}

func TestNormalizePathLengthsReportsUnshortenable(t *testing.T) {
	root := t.TempDir()
	// Budget so tight that not even "~" plus one character fits.
	maxLen := pathLength(root) + 1
	writeFile(t, filepath.Join(root, "abc.txt"), "content")

	p, logPath := newTestPipeline(t, root, func(cfg *config.Config) {
		cfg.Limits.MaxPathLength = maxLen
	})
	if err := p.normalizePathLengths(context.Background()); err != nil {
		t.Fatalf("normalizePathLengths failed: %v", err)
	}

	// Entry left unmodified, failure reported, loop terminated.
	if !exists(filepath.Join(root, "abc.txt")) {
		t.Error("unshortenable entry must be left in place")
	}

	lines := auditLines(t, logPath)
	if got := countPrefix(lines, "skipped"); got != 1 {
		t.Fatalf("expected 1 skipped record, got %d: %v", got, lines)
	}
	if !strings.Contains(lines[0], "path still too long") {
		t.Errorf("expected path-still-too-long reason, got %q", lines[0])
	}
}

func TestNormalizePathLengthsCollision(t *testing.T) {
	root := t.TempDir()
	maxLen := pathLength(root) + 40
	longName := strings.Repeat("x", 60) + ".docx"
	shortName := "~" + strings.Repeat("x", 19) + ".docx"
	writeFile(t, filepath.Join(root, longName), "over limit")
	writeFile(t, filepath.Join(root, shortName), "already here")

	p, logPath := newTestPipeline(t, root, func(cfg *config.Config) {
		cfg.Limits.MaxPathLength = maxLen
	})
	if err := p.normalizePathLengths(context.Background()); err != nil {
		t.Fatalf("normalizePathLengths failed: %v", err)
	}

	// Existing sibling untouched, over-limit entry left as-is.
	if !exists(filepath.Join(root, shortName)) {
		t.Error("existing sibling must not be overwritten")
	}
	if !exists(filepath.Join(root, longName)) {
		t.Error("colliding entry must be left unmodified")
	}

	lines := auditLines(t, logPath)
	if got := countPrefix(lines, "skipped"); got != 1 {
		t.Fatalf("expected 1 skipped record, got %d: %v", got, lines)
	}
	if !strings.Contains(lines[0], "name collision") {
		t.Errorf("expected name collision reason, got %q", lines[0])
	}
}

func TestNormalizePathLengthsNoOpWithinLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "short.txt"), "content")

	p, logPath := newTestPipeline(t, root, nil)
	if err := p.normalizePathLengths(context.Background()); err != nil {
		t.Fatalf("normalizePathLengths failed: %v", err)
	}

	if !exists(filepath.Join(root, "short.txt")) {
		t.Error("entry within the limit must be untouched")
	}
	if lines := auditLines(t, logPath); len(lines) != 0 {
		t.Errorf("expected empty audit log, got %v", lines)
	}
}
