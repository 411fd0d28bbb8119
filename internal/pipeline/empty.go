package pipeline

import (
	"context"
	"io/fs"
	"os"

	"github.com/mfeldt/driveprep/internal/fsutil"
)

// pruneEmptyFiles removes every zero-length file under the root.
func (p *Pipeline) pruneEmptyFiles(ctx context.Context) error {
	return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if d.IsDir() || !d.Type().IsRegular() {
			return
		}
		info, err := d.Info()
		if err != nil {
			p.audit.Failed("stat", path, err)
			p.stats.failed++
			return
		}
		if info.Size() == 0 {
			p.removeEntry(path, "empty file")
		}
	})
}

// pruneEmptyDirs removes directories left empty by prior removals,
// deepest-first so a directory whose only children were themselves empty
// directories goes in the same sweep. On unless prune.empty_dirs is
// explicitly switched off.
func (p *Pipeline) pruneEmptyDirs(ctx context.Context) error {
	if !p.cfg.Prune.EmptyDirsEnabled() {
		return nil
	}

	dirs, err := p.collectEntries(ctx, true)
	if err != nil {
		return err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := dirs[i]
		entries, err := os.ReadDir(fsutil.Extended(dir))
		if err != nil {
			p.audit.Failed("read dir", dir, err)
			p.stats.failed++
			continue
		}
		if len(entries) == 0 {
			p.removeEntry(dir, "empty directory")
		}
	}
	return nil
}
