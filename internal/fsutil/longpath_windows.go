//go:build windows

package fsutil

import "strings"

// maxLiteralPath is the longest path the Win32 API accepts without the
// extended-length prefix.
const maxLiteralPath = 259

// Extended returns path in extended-length form (`\\?\`-prefixed) when it
// exceeds the literal Win32 limit, so that files buried under over-length
// directories can still be opened, renamed, and removed. Paths already in
// extended form, and paths within the limit, are returned unchanged.
func Extended(path string) string {
	if len(path) <= maxLiteralPath {
		return path
	}
	if strings.HasPrefix(path, `\\?\`) {
		return path
	}
	// The extended form requires backslash separators.
	path = strings.ReplaceAll(path, `/`, `\`)
	if strings.HasPrefix(path, `\\`) {
		// UNC path: \\server\share -> \\?\UNC\server\share
		return `\\?\UNC` + path[1:]
	}
	return `\\?\` + path
}
