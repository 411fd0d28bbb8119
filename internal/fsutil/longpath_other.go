//go:build !windows

package fsutil

// Extended is the identity on platforms without a separate extended-length
// path syntax.
func Extended(path string) string {
	return path
}
