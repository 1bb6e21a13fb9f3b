package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"
)

var unsafeLockNameChars = regexp.MustCompile(`[^\w\-.]`)

// InstanceLock is a host-level file lock ensuring a single scheduler process per database schema
type InstanceLock struct {
	lockFile *flock.Flock
	lockPath string
}

// lockFileName converts an arbitrary instance name into a safe file name
func lockFileName(name string) string {
	sanitized := strings.ReplaceAll(name, "/", "--")
	sanitized = strings.ReplaceAll(sanitized, "\\", "--")
	sanitized = unsafeLockNameChars.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, ".-")
	if sanitized == "" {
		sanitized = "default"
	}
	return sanitized + ".lock"
}

// NewInstanceLock prepares a lock file for name under dir (os temp dir when empty)
func NewInstanceLock(dir, name string) (*InstanceLock, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "dailydose")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, lockFileName(name))
	return &InstanceLock{
		lockFile: flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// TryLock acquires the lock without blocking.
// Returns an error if another process already holds it.
func (l *InstanceLock) TryLock() error {
	locked, err := l.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another dailydose scheduler is already running (lock %s)", l.lockPath)
	}
	return nil
}

// Unlock releases the lock and removes the lock file
func (l *InstanceLock) Unlock() error {
	if err := l.lockFile.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}
	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (l *InstanceLock) Path() string {
	return l.lockPath
}
