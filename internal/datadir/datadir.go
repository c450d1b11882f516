// Package datadir prepares the engine's data directory and makes sure only
// one engine process uses it at a time.
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = "engine.lock"

var ErrLocked = errors.New("data directory is in use by another engine")

// Resolve picks the data directory: the explicit value, then
// LEADHUB_DATA_DIR, then the working directory.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("LEADHUB_DATA_DIR"); v != "" {
		return v
	}
	return "."
}

type Lock struct {
	fl *flock.Flock
}

// Acquire creates dir if needed and takes its lock without waiting.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	fl := flock.New(filepath.Join(dir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
