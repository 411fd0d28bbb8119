// Package fsutil isolates the OS-specific pieces of tree normalization:
// hidden-attribute handling and extended-length path addressing. All other
// packages call these portable entry points; the platform files supply the
// real behavior on Windows and no-ops elsewhere.
package fsutil
