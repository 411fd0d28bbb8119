//go:build !windows

package fsutil

// IsHidden always reports false on platforms without a hidden attribute
// bit.
func IsHidden(path string) (bool, error) {
	return false, nil
}

// ClearHidden is a no-op on platforms without a hidden attribute bit.
// Dot-prefixed names are names, not attributes; rewriting them is the
// name sanitizer's business, not this package's.
func ClearHidden(path string) (bool, error) {
	return false, nil
}
