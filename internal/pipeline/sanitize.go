package pipeline

import (
	"context"
	"path/filepath"
	"strings"
)

// placeholder replaces each reserved character in an item name.
const placeholder = '_'

// sanitizeName replaces every character the destination platform reserves
// with the placeholder, preserving all other characters byte-for-byte.
// The result is never empty for a non-empty input.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', ':', '"', '<', '>', '?', '|', '/', '\\':
			return placeholder
		}
		return r
	}, name)
}

// sanitizeNames renames every entry whose name contains a reserved
// character. Entries are processed children-first (reverse lexical order)
// so renaming a directory never invalidates a pending child path. A
// sanitized name that collides with an existing sibling is skipped, never
// overwritten.
func (p *Pipeline) sanitizeNames(ctx context.Context) error {
	paths, err := p.collectEntries(ctx, false)
	if err != nil {
		return err
	}

	for i := len(paths) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := paths[i]
		base := filepath.Base(path)
		clean := sanitizeName(base)
		if clean == base {
			continue
		}
		p.renameEntry(path, filepath.Join(filepath.Dir(path), clean))
	}
	return nil
}
