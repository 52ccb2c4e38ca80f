package sortengine

import "errors"

// Error kinds surfaced to the caller of Sort (spec.md §7). None of these
// are retried or recovered internally — see driver.go and sort.go.
var (
	// ErrInvalidHeader means a file's declared element count implies more
	// bytes than the file actually holds. Bytes beyond the declared
	// payload are not detected.
	ErrInvalidHeader = errors.New("sortengine: invalid header: declared count does not match file length")

	// ErrBudgetTooSmall means memoryElems can't hold fanIn+1 one-element
	// buffer slices (spec.md §4.6, §7: M >= k+1).
	ErrBudgetTooSmall = errors.New("sortengine: memory budget too small for requested fan-in")
)
