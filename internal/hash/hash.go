// Package hash computes content digests for duplicate detection.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/mfeldt/driveprep/internal/fsutil"
)

// Digest computes the hex-encoded SHA-256 hash of the file's content.
// Content is streamed, so arbitrarily large files hash in constant
// memory. The path is opened in extended form so files beyond the
// platform's literal path limit still hash instead of failing.
func Digest(path string) (string, error) {
	f, err := os.Open(fsutil.Extended(path))
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file for hashing: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
