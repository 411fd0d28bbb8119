//go:build windows

package fsutil

import "golang.org/x/sys/windows"

// IsHidden reports whether path carries the hidden attribute.
func IsHidden(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(Extended(path))
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0, nil
}

// ClearHidden clears the hidden attribute on path. It returns true when
// the attribute was set and has been cleared, false when there was nothing
// to do.
func ClearHidden(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(Extended(path))
	if err != nil {
		return false, err
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	if attrs&windows.FILE_ATTRIBUTE_HIDDEN == 0 {
		return false, nil
	}

	attrs &^= windows.FILE_ATTRIBUTE_HIDDEN
	if attrs == 0 {
		// SetFileAttributes rejects zero; NORMAL is the canonical
		// "no attributes" value.
		attrs = windows.FILE_ATTRIBUTE_NORMAL
	}
	if err := windows.SetFileAttributes(p, attrs); err != nil {
		return false, err
	}
	return true, nil
}
