// Package pipeline runs the ordered normalization passes that prepare a
// directory tree for migration. Each pass performs its own full traversal
// of the source root; per-entry failures are written to the audit log and
// never abort a pass. Only an inaccessible source root is fatal.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mfeldt/driveprep/internal/audit"
	"github.com/mfeldt/driveprep/internal/config"
	"github.com/mfeldt/driveprep/internal/fsutil"
	"github.com/mfeldt/driveprep/internal/rules"
)

// Pipeline orchestrates the normalization passes
type Pipeline struct {
	cfg    *config.Config
	audit  *audit.Log
	logger *slog.Logger
	dryRun bool

	disallowed *rules.ExtensionSet
	junkNames  *rules.NamePolicy
	vendor     *rules.ExtensionSet
	archives   *rules.ArchiveSet

	stats stats
}

type stats struct {
	removed  int
	renamed  int
	unhidden int
	skipped  int
	failed   int
}

// New creates a pipeline over the configured source root, writing every
// action to auditLog.
func New(cfg *config.Config, auditLog *audit.Log, logger *slog.Logger, dryRun bool) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		audit:      auditLog,
		logger:     logger,
		dryRun:     dryRun,
		disallowed: rules.NewExtensionSet(cfg.Rules.DisallowedExtensions),
		junkNames:  rules.NewNamePolicy(cfg.Rules.DisallowedNames, cfg.Rules.LockFilePrefixes),
		vendor:     rules.NewExtensionSet(cfg.Rules.VendorExtensions),
		archives:   rules.NewArchiveSet(cfg.Rules.ArchiveExtensions),
	}
}

// Run executes all passes in order over the source root.
func (p *Pipeline) Run(ctx context.Context) error {
	root := p.cfg.Source.Root
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("source root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root is not a directory: %s", root)
	}

	p.logger.Info("starting normalization",
		"root", root,
		"max_path_length", p.cfg.Limits.MaxPathLength,
		"dry_run", p.dryRun)

	passes := []struct {
		name string
		run  func(context.Context) error
	}{
		{"clear hidden attributes", p.clearHiddenAttributes},
		{"sanitize names", p.sanitizeNames},
		{"prune empty files", p.pruneEmptyFiles},
		{"prune empty directories", p.pruneEmptyDirs},
		{"prune expanded archives", p.pruneExpandedArchives},
		{"prune duplicate files", p.pruneDuplicateFiles},
		{"prune unsupported types", p.pruneUnsupportedTypes},
		{"prune vendor artifacts", p.pruneVendorArtifacts},
		// Later prunes can empty directories that were occupied when the
		// first sweep ran; sweep again so one run converges.
		{"sweep emptied directories", p.pruneEmptyDirs},
		{"normalize path lengths", p.normalizePathLengths},
	}

	for _, pass := range passes {
		p.logger.Info("running pass", "pass", pass.name)
		if err := pass.run(ctx); err != nil {
			return fmt.Errorf("pass %q: %w", pass.name, err)
		}
	}

	p.logger.Info("normalization complete",
		"removed", p.stats.removed,
		"renamed", p.stats.renamed,
		"unhidden", p.stats.unhidden,
		"skipped", p.stats.skipped,
		"failed", p.stats.failed)
	return nil
}

// walkEntries walks the source tree in lexical order, calling fn for every
// entry below the root. Per-entry traversal errors are audited and the
// walk continues; a context cancellation or an unreadable root stops it.
func (p *Pipeline) walkEntries(ctx context.Context, fn func(path string, d fs.DirEntry)) error {
	root := p.cfg.Source.Root
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("cannot access source root: %w", err)
			}
			p.audit.Failed("walk", path, err)
			p.stats.failed++
			return nil
		}
		if path == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(path, d)
		return nil
	})
}

// collectEntries returns all paths below the root in lexical order.
func (p *Pipeline) collectEntries(ctx context.Context, dirsOnly bool) ([]string, error) {
	var paths []string
	err := p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if dirsOnly && !d.IsDir() {
			return
		}
		paths = append(paths, path)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// removeEntry deletes the entry at path, honoring dry-run, and records the
// outcome. Returns true when the entry is gone.
func (p *Pipeline) removeEntry(path, reason string) bool {
	if p.dryRun {
		p.logger.Info("[dry-run] would remove", "path", path, "reason", reason)
		return false
	}
	if err := os.Remove(fsutil.Extended(path)); err != nil {
		p.audit.Failed("remove", path, err)
		p.stats.failed++
		p.logger.Warn("failed to remove entry", "path", path, "error", err)
		return false
	}
	p.audit.Removed(path, reason)
	p.stats.removed++
	p.logger.Debug("removed entry", "path", path, "reason", reason)
	return true
}

// renameEntry renames oldPath to newPath, honoring dry-run, refusing to
// overwrite an existing sibling, and records the outcome. Returns true
// when the rename was applied.
func (p *Pipeline) renameEntry(oldPath, newPath string) bool {
	if p.dryRun {
		p.logger.Info("[dry-run] would rename", "from", oldPath, "to", newPath)
		return false
	}
	if _, err := os.Lstat(fsutil.Extended(newPath)); err == nil {
		p.audit.Skipped(oldPath, "name collision with "+newPath)
		p.stats.skipped++
		p.logger.Warn("rename would overwrite existing entry", "from", oldPath, "to", newPath)
		return false
	}
	if err := os.Rename(fsutil.Extended(oldPath), fsutil.Extended(newPath)); err != nil {
		p.audit.Failed("rename", oldPath, err)
		p.stats.failed++
		p.logger.Warn("failed to rename entry", "from", oldPath, "to", newPath, "error", err)
		return false
	}
	p.audit.Renamed(oldPath, newPath)
	p.stats.renamed++
	p.logger.Debug("renamed entry", "from", oldPath, "to", newPath)
	return true
}
