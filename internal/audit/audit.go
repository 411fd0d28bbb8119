// Package audit provides the append-only action log shared by all
// normalization passes. Every destructive or mutating action, and every
// failure to apply one, produces exactly one line in the log so that an
// operator (or the destination platform's validation tooling) can review
// what happened to the tree.
package audit

import (
	"fmt"
	"os"
	"sync"
)

// Log is an append-only text sink. It is safe for concurrent use so that
// independent subtree runs can share a single log.
type Log struct {
	mu sync.Mutex
	f  *os.File
}

// Open creates the log file at path, truncating any previous content.
// The returned Log must be closed by the caller.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &Log{f: f}, nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.f.Sync(); err != nil {
		_ = l.f.Close()
		return err
	}
	return l.f.Close()
}

// Removed records the deletion of an entry and why it was deleted.
func (l *Log) Removed(path, reason string) {
	l.appendLine("removed %s (%s)", path, reason)
}

// Renamed records an in-place rename.
func (l *Log) Renamed(oldPath, newPath string) {
	l.appendLine("renamed %s -> %s", oldPath, newPath)
}

// Unhidden records the clearing of a hidden attribute.
func (l *Log) Unhidden(path string) {
	l.appendLine("unhidden %s", path)
}

// Skipped records an entry that was deliberately left untouched, with the
// reason (name collision, unreadable content, path still too long).
func (l *Log) Skipped(path, reason string) {
	l.appendLine("skipped %s (%s)", path, reason)
}

// Failed records a mutation that was attempted but denied by the OS.
func (l *Log) Failed(action, path string, err error) {
	l.appendLine("failed %s %s: %v", action, path, err)
}

func (l *Log) appendLine(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// A write error here has nowhere better to go than stderr; the
	// pipeline must keep running regardless.
	if _, err := fmt.Fprintf(l.f, format+"\n", args...); err != nil {
		fmt.Fprintf(os.Stderr, "audit log write failed: %v\n", err)
	}
}
