package pipeline

import (
	"context"
	"io/fs"

	"github.com/mfeldt/driveprep/internal/fsutil"
)

// clearHiddenAttributes clears the filesystem hidden marker on every entry
// under the root so nothing is excluded from the destination platform's
// directory listings. Attribute failures on individual entries are audited
// and the traversal continues.
func (p *Pipeline) clearHiddenAttributes(ctx context.Context) error {
	return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if p.dryRun {
			hidden, err := fsutil.IsHidden(path)
			if err != nil {
				p.audit.Failed("unhide", path, err)
				p.stats.failed++
				return
			}
			if hidden {
				p.logger.Info("[dry-run] would clear hidden attribute", "path", path)
			}
			return
		}

		changed, err := fsutil.ClearHidden(path)
		if err != nil {
			p.audit.Failed("unhide", path, err)
			p.stats.failed++
			p.logger.Warn("failed to clear hidden attribute", "path", path, "error", err)
			return
		}
		if changed {
			p.audit.Unhidden(path)
			p.stats.unhidden++
		}
	})
}
