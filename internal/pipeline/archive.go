package pipeline

import (
	"context"
	"io/fs"
	"os"

	"github.com/mfeldt/driveprep/internal/fsutil"
)

// pruneExpandedArchives removes archive files whose expanded counterpart
// already exists at the sibling path derived by stripping the archive
// extension. This is a path-existence heuristic only: the archive's
// contents are never compared against the sibling. An archive with no
// expanded counterpart is retained, since it may be the only copy.
func (p *Pipeline) pruneExpandedArchives(ctx context.Context) error {
	return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if d.IsDir() || !d.Type().IsRegular() {
			return
		}
		expanded, ok := p.archives.ExpandedPath(path)
		if !ok {
			return
		}
		if _, err := os.Lstat(fsutil.Extended(expanded)); err != nil {
			return
		}
		p.removeEntry(path, "already expanded at "+expanded)
	})
}
