package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"
)

// pruneUnsupportedTypes removes files the destination platform refuses:
// disallowed extensions, junk base names, and transient lock files
// matched by name prefix.
func (p *Pipeline) pruneUnsupportedTypes(ctx context.Context) error {
	return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if d.IsDir() {
			return
		}
		switch {
		case p.disallowed.Matches(path):
			p.removeEntry(path, "unsupported type "+filepath.Ext(path))
		case p.junkNames.Matches(path):
			p.removeEntry(path, "unsupported name "+filepath.Base(path))
		}
	})
}
