package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/mfeldt/driveprep/internal/hash"
)

// pruneDuplicateFiles removes every file whose content digest was already
// seen earlier in the traversal. Files are processed in full-path
// lexicographic order, making "first" a documented, reproducible choice:
// among any set of identical files, the one with the lexicographically
// smallest path is retained. Files whose digest cannot be computed are
// skipped, never deleted on unknown identity. The seen-hash index lives
// only for the duration of this pass.
func (p *Pipeline) pruneDuplicateFiles(ctx context.Context) error {
	var files []string
	err := p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if d.IsDir() || !d.Type().IsRegular() {
			return
		}
		files = append(files, path)
	})
	if err != nil {
		return err
	}

	// WalkDir emits entries in per-directory name order, which is not
	// full-path order: it descends into a directory before visiting a
	// sibling file whose name the directory prefixes ("a/b.txt" before
	// "a.txt"). Sort the complete paths so retention order holds.
	sort.Strings(files)

	seen := make(map[string]string) // digest -> first path observed

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		digest, err := hash.Digest(path)
		if err != nil {
			p.audit.Skipped(path, fmt.Sprintf("unreadable content: %v", err))
			p.stats.skipped++
			p.logger.Warn("cannot hash file", "path", path, "error", err)
			continue
		}

		kept, dup := seen[digest]
		if !dup {
			seen[digest] = path
			continue
		}
		p.removeEntry(path, "duplicate of "+kept)
	}
	return nil
}
