// Package rules implements the stateless prune policies that parameterize
// the pipeline passes: disallowed extensions, disallowed base names,
// lock-file prefixes, and archive extensions. All matching is
// case-insensitive, since the trees being prepared usually come off
// case-preserving but case-insensitive filesystems.
package rules

import (
	"path/filepath"
	"sort"
	"strings"
)

// ExtensionSet matches file paths by extension. Extensions are stored
// lowercased, with their leading dot.
type ExtensionSet struct {
	exts map[string]bool
}

// NewExtensionSet builds a set from the given extensions.
func NewExtensionSet(exts []string) *ExtensionSet {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = true
	}
	return &ExtensionSet{exts: set}
}

// Matches returns true if path's extension is in the set.
func (s *ExtensionSet) Matches(path string) bool {
	return s.exts[strings.ToLower(filepath.Ext(path))]
}

// NamePolicy matches file paths by exact base name or base-name prefix.
type NamePolicy struct {
	names    map[string]bool
	prefixes []string
}

// NewNamePolicy builds a policy from exact names and name prefixes.
func NewNamePolicy(names, prefixes []string) *NamePolicy {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	lowered := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		if prefix != "" {
			lowered = append(lowered, strings.ToLower(prefix))
		}
	}
	return &NamePolicy{names: set, prefixes: lowered}
}

// Matches returns true if path's base name is disallowed, either exactly
// or by prefix (transient lock files like "~$report.docx").
func (p *NamePolicy) Matches(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if p.names[name] {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ArchiveSet recognizes archive files and derives the path their expanded
// copy would occupy.
type ArchiveSet struct {
	// Longest extensions first so ".tar.gz" wins over ".gz".
	exts []string
}

// NewArchiveSet builds a set from the given archive extensions.
func NewArchiveSet(exts []string) *ArchiveSet {
	lowered := make([]string, 0, len(exts))
	for _, ext := range exts {
		lowered = append(lowered, strings.ToLower(ext))
	}
	sort.Slice(lowered, func(i, j int) bool {
		return len(lowered[i]) > len(lowered[j])
	})
	return &ArchiveSet{exts: lowered}
}

// ExpandedPath returns the path with the archive extension stripped and
// true when path carries a recognized archive extension. Matching is on
// the name's suffix, so multi-part extensions like ".tar.gz" are stripped
// whole.
func (s *ArchiveSet) ExpandedPath(path string) (string, bool) {
	lower := strings.ToLower(filepath.Base(path))
	for _, ext := range s.exts {
		// The name must have something left once the extension goes.
		if len(lower) > len(ext) && strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)], true
		}
	}
	return "", false
}
