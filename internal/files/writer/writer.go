// Package writer replaces model files on disk without losing concurrent edits.
//
// Each write takes an OS-level lock on "<file>.lock", re-reads the file and
// compares its checksum with the one recorded at scan time, then writes the
// new content to a temporary file in the same directory and renames it over
// the original. A checksum mismatch returns pgannotate.ErrFileConflict and
// leaves the file untouched.
//
// The lock file is never removed: flock locks belong to the inode, and every
// writer of a path must lock the same one.
package writer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// ErrLockTimeout is returned when the file lock cannot be acquired in time.
var ErrLockTimeout = errors.New("timeout acquiring file lock")

const pollInterval = 10 * time.Millisecond

// Writer is safe for concurrent use; writes to the same path are serialized
// by the file lock.
type Writer struct {
	calculator  checksum.Calculator
	lockTimeout time.Duration
}

// New creates a Writer. A non-positive lockTimeout uses pgannotate.DefaultLockTimeout.
func New(calculator checksum.Calculator, lockTimeout time.Duration) *Writer {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if lockTimeout <= 0 {
		lockTimeout = pgannotate.DefaultLockTimeout
	}
	return &Writer{calculator: calculator, lockTimeout: lockTimeout}
}

// Write replaces the file at path with content if its current checksum
// still equals expected.
func (w *Writer) Write(ctx context.Context, path, expected string, content []byte) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}

	release, err := w.lock(ctx, path)
	if err != nil {
		return err
	}
	defer release()

	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", path, err)
	}
	if !w.calculator.Matches(current, expected) {
		return fmt.Errorf("%s changed since it was scanned: %w", path, pgannotate.ErrFileConflict)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return replace(path, content, info.Mode().Perm())
}

func (w *Writer) lock(ctx context.Context, path string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, w.lockTimeout)
	defer cancel()

	lockPath := path + ".lock"
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(ctx, pollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", path, ErrLockTimeout)
		}
		return nil, fmt.Errorf("error acquiring file lock for %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLockTimeout)
	}

	return func() { _ = fileLock.Unlock() }, nil
}

// replace writes content next to path and renames it into place.
func replace(path string, content []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, content, perm); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", path, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to set mode on temporary file for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
