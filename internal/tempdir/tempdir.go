// Package tempdir provides the run-file naming/placement strategy the
// core sort engine treats as an injected external collaborator
// (spec.md §1, §6): it picks a directory, names it so two concurrent
// sort processes never collide, and advisory-locks it for the
// invocation's lifetime — the teacher repo's own writer package
// carries the same per-platform lock-file split
// (lock_windows.go/lock_unix.go) for its CSV append path; this
// package completes that pattern for the sort engine's scratch space.
package tempdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultPattern is the run-file naming pattern used when none is
// supplied, matching the original engine's RUN_NAME_PATTERN.
const DefaultPattern = "run.%d.bin"

// Policy is a concrete, process-safe run-file placement strategy. It
// implements sortengine.TempDirPolicy.
type Policy struct {
	dir     string
	pattern string
	lock    *os.File
}

// New creates a fresh, uniquely-named subdirectory of base (the OS
// temp dir if base is ""), named "sortengine-<uuid>" so that multiple
// sort processes sharing base never collide, and takes an advisory
// exclusive lock on a sentinel file inside it. Callers must call
// Close when the sort is done.
func New(base, pattern string) (*Policy, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if base == "" {
		base = os.TempDir()
	}

	dir := filepath.Join(base, "sortengine-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tempdir: create %s: %w", dir, err)
	}

	lockPath := filepath.Join(dir, ".lock")
	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("tempdir: open lock file: %w", err)
	}
	if err := lockFile(lock); err != nil {
		lock.Close()
		os.RemoveAll(dir)
		return nil, fmt.Errorf("tempdir: lock %s: %w", dir, err)
	}

	return &Policy{dir: dir, pattern: pattern, lock: lock}, nil
}

// Dir implements sortengine.TempDirPolicy.
func (p *Policy) Dir() string { return p.dir }

// Pattern implements sortengine.TempDirPolicy.
func (p *Policy) Pattern() string { return p.pattern }

// Close releases the advisory lock and best-effort removes the temp
// directory and everything left in it (abandoned run files included).
// A failed removal is returned as a warning, never fatal — the
// engine's own cleanup discipline (spec.md §9) applies here too.
func (p *Policy) Close() error {
	unlockErr := unlockFile(p.lock)
	closeErr := p.lock.Close()
	rmErr := os.RemoveAll(p.dir)

	if unlockErr != nil {
		return fmt.Errorf("tempdir: unlock: %w", unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("tempdir: close lock file: %w", closeErr)
	}
	if rmErr != nil {
		return fmt.Errorf("tempdir: best-effort remove %s: %w", p.dir, rmErr)
	}
	return nil
}
