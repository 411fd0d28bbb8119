package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"
)

// pruneVendorArtifacts removes the accounting application's proprietary
// working files (company files, backups, transaction logs), which the
// destination platform cannot open and must not receive.
func (p *Pipeline) pruneVendorArtifacts(ctx context.Context) error {
	return p.walkEntries(ctx, func(path string, d fs.DirEntry) {
		if d.IsDir() {
			return
		}
		if p.vendor.Matches(path) {
			p.removeEntry(path, "vendor artifact "+filepath.Ext(path))
		}
	})
}
