package pipeline

import (
	"context"
	"testing"
)

func TestPruneUnsupportedTypes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root+"/scratch.TMP", "temp data")
	writeFile(t, root+"/shortcut.lnk", "link data")
	writeFile(t, root+"/Thumbs.db", "thumbnail cache")
	writeFile(t, root+"/sub/desktop.ini", "folder settings")
	writeFile(t, root+"/sub/~$budget.xlsx", "office lock")
	writeFile(t, root+"/report.docx", "real document")

	p, logPath := newTestPipeline(t, root, nil)
	if err := p.pruneUnsupportedTypes(context.Background()); err != nil {
		t.Fatalf("pruneUnsupportedTypes failed: %v", err)
	}

	for _, gone := range []string{
		"/scratch.TMP", "/shortcut.lnk", "/Thumbs.db",
		"/sub/desktop.ini", "/sub/~$budget.xlsx",
	} {
		if exists(root + gone) {
			t.Errorf("%s should be removed", gone)
		}
	}
	if !exists(root + "/report.docx") {
		t.Error("supported document must be untouched")
	}

	lines := auditLines(t, logPath)
	if got := countPrefix(lines, "removed"); got != 5 {
		t.Errorf("expected 5 removed records, got %d: %v", got, lines)
	}
}
