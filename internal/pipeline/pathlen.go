package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mfeldt/driveprep/internal/fsutil"
)

const (
	// truncationMarker prefixes every shortened name so an operator can
	// spot truncated entries.
	truncationMarker = "~"
	// shortNameTail is how many trailing code points of the original
	// name a shortened name preserves, budget permitting. The tail keeps
	// the extension and enough context to recognize the item.
	shortNameTail = 24
)

var errFoundEntry = errors.New("found over-limit entry")

// normalizePathLengths renames entries whose full path exceeds the
// configured maximum. It runs last, after every other renaming pass; the
// tree is re-walked after each rename so ancestor renames are reflected in
// descendant paths before they are measured. Entries that cannot be
// brought within the limit are reported once and left unmodified.
func (p *Pipeline) normalizePathLengths(ctx context.Context) error {
	maxLen := p.cfg.Limits.MaxPathLength

	if p.dryRun {
		// No renames happen, so ancestor lengths never change: a single
		// walk reports every over-limit entry as the tree stands.
		return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
			if pathLength(path) > maxLen {
				p.logger.Info("[dry-run] would shorten",
					"path", path, "length", pathLength(path), "max", maxLen)
			}
		})
	}

	// Every iteration either applies a rename (the entry drops within the
	// limit and all its descendants shrink) or marks the entry failed, so
	// the loop terminates.
	failed := make(map[string]bool)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := p.findOverLimit(ctx, maxLen, failed)
		if err != nil {
			return err
		}
		if target == "" {
			return nil
		}
		p.shortenEntry(target, maxLen, failed)
	}
}

// findOverLimit returns the first entry in lexical order whose path
// exceeds maxLen and has not already failed shortening. Lexical order is
// also top-down, so over-limit ancestors are fixed before their
// descendants are considered.
func (p *Pipeline) findOverLimit(ctx context.Context, maxLen int, failed map[string]bool) (string, error) {
	var found string
	err := filepath.WalkDir(p.cfg.Source.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == p.cfg.Source.Root {
				return err
			}
			return nil
		}
		if path == p.cfg.Source.Root {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if pathLength(path) > maxLen && !failed[path] {
			found = path
			return errFoundEntry
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFoundEntry) {
		return "", err
	}
	return found, nil
}

// shortenEntry renames the entry at path to a name within the length
// budget, or records why it could not.
func (p *Pipeline) shortenEntry(path string, maxLen int, failed map[string]bool) {
	dir := filepath.Dir(path)
	budget := maxLen - pathLength(dir) - 1 // separator
	name := filepath.Base(path)

	short, ok := shortenName(name, budget)
	if !ok || short == name {
		failed[path] = true
		p.audit.Skipped(path, "path still too long")
		p.stats.skipped++
		p.logger.Warn("cannot shorten path within limit", "path", path, "max", maxLen)
		return
	}

	target := filepath.Join(dir, short)
	if _, err := os.Lstat(fsutil.Extended(target)); err == nil {
		failed[path] = true
		p.audit.Skipped(path, "name collision with "+target)
		p.stats.skipped++
		return
	}
	if err := os.Rename(fsutil.Extended(path), fsutil.Extended(target)); err != nil {
		failed[path] = true
		p.audit.Failed("rename", path, err)
		p.stats.failed++
		return
	}
	p.audit.Renamed(path, target)
	p.stats.renamed++
}

// shortenName produces the truncation marker followed by the trailing
// fragment of name, within budget code points. Returns false when the
// budget cannot fit the marker plus at least one character of the name.
func shortenName(name string, budget int) (string, bool) {
	keep := budget - utf8.RuneCountInString(truncationMarker)
	if keep < 1 {
		return "", false
	}
	if keep > shortNameTail {
		keep = shortNameTail
	}
	runes := []rune(name)
	if keep > len(runes) {
		keep = len(runes)
	}
	return truncationMarker + string(runes[len(runes)-keep:]), true
}

// pathLength measures a path in Unicode code points, matching how the
// destination platform counts its path limit.
func pathLength(path string) int {
	return utf8.RuneCountInString(path)
}
