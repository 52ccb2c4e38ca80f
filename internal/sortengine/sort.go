package sortengine

import (
	"fmt"
	"os"
)

// TempDirPolicy names the placement/naming strategy for run files
// (spec.md §1, §6): where they live and how they're named. It is an
// external collaborator, not part of the core engine — the core only
// needs a directory and a one-verb naming pattern for the duration of
// one Sort call. See internal/tempdir for the concrete policy the CLI
// driver injects.
type TempDirPolicy interface {
	// Dir returns the directory run files should be created in for
	// this sort invocation.
	Dir() string
	// Pattern returns a printf-style pattern with exactly one integer
	// verb, e.g. "run.%d.bin".
	Pattern() string
}

// defaultTempDirPolicy places runs in the OS temp directory under a
// fixed pattern, matching the original engine's RUN_NAME_PATTERN.
type defaultTempDirPolicy struct{ dir string }

func (p defaultTempDirPolicy) Dir() string   { return p.dir }
func (defaultTempDirPolicy) Pattern() string { return "run.%d.bin" }

// Option configures a Sort call.
type Option func(*sortConfig)

type sortConfig struct {
	tempDir TempDirPolicy
}

// WithTempDirPolicy injects a run-file naming/placement strategy.
// Without it, Sort creates and cleans up its own OS temp directory.
func WithTempDirPolicy(p TempDirPolicy) Option {
	return func(c *sortConfig) { c.tempDir = p }
}

// Sort reads input (positioned at offset 0, file-of-elements format),
// sorts it under a memoryElems-element working-memory budget and the
// given fan-in, and writes the result to output (truncated, writable)
// in the same format (spec.md §4.6).
//
// Errors: ErrInvalidHeader (declared count inconsistent with file
// length), I/O failure (wrapped, unwrapped via errors.Is against the
// returned error where it names a specific os error), or
// ErrBudgetTooSmall (memoryElems < fanIn+1, or fanIn < 2).
func Sort(input, output *os.File, memoryElems, fanIn int, opts ...Option) error {
	if err := validateBudget(memoryElems, fanIn); err != nil {
		return err
	}

	cfg := &sortConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ownTempDir := cfg.tempDir == nil
	if ownTempDir {
		dir, err := os.MkdirTemp("", "sortengine-")
		if err != nil {
			return fmt.Errorf("sortengine: create temp dir: %w", err)
		}
		cfg.tempDir = defaultTempDirPolicy{dir: dir}
		defer os.RemoveAll(dir)
	}

	mem := make([]uint64, memoryElems)
	return DoMergeSort(input, output, mem, memoryElems, fanIn, cfg.tempDir.Dir(), cfg.tempDir.Pattern())
}
