package sortengine

import (
	"fmt"
	"os"
	"slices"
)

// Produce reads input (positioned at offset 0, file-of-elements
// format) in memoryElems-sized chunks, sorts each chunk in RAM using
// mem as scratch space, and emits one run per chunk into a freshly
// created pool. The pool is sized runsCnt+1: the extra run is left
// empty as the scratch slot the merge driver reuses as its rolling
// result file (spec.md §4.3, §9(a)).
//
// mem must have length >= memoryElems; only mem[:memoryElems] is used.
func Produce(input *os.File, mem []uint64, memoryElems int, tempDir, namePattern string) (pool *RunPool, totalElems uint64, err error) {
	n, err := readHeader(input)
	if err != nil {
		return nil, 0, err
	}

	var runsCnt uint64
	if n != 0 {
		runsCnt = 1 + (n-1)/uint64(memoryElems)
	}

	pool, err = OfSize(tempDir, namePattern, int(runsCnt)+1)
	if err != nil {
		return nil, 0, err
	}

	var produced uint64
	for i := uint64(0); i < runsCnt; i++ {
		want := uint64(memoryElems)
		if (i+1)*uint64(memoryElems) > n {
			want = n % uint64(memoryElems)
		}

		chunk := mem[:want]
		raw := make([]byte, want*elemSize)
		if _, err := readFull(input, raw); err != nil {
			return nil, 0, fmt.Errorf("sortengine: produce: read chunk %d: %w: %w", i, ErrInvalidHeader, err)
		}
		decodeElements(chunk, raw)
		slices.Sort(chunk)

		run, err := pool.Get()
		if err != nil {
			return nil, 0, fmt.Errorf("sortengine: produce: acquire run for chunk %d: %w", i, err)
		}
		if err := writeHeader(run.file, want); err != nil {
			return nil, 0, fmt.Errorf("sortengine: produce: write run %d header: %w", run.id, err)
		}
		encodeElements(raw, chunk)
		if _, err := run.file.Write(raw); err != nil {
			return nil, 0, fmt.Errorf("sortengine: produce: write run %d payload: %w", run.id, err)
		}
		if err := pool.Put(run); err != nil {
			return nil, 0, fmt.Errorf("sortengine: produce: return run %d: %w", run.id, err)
		}
		produced += want
	}

	return pool, n, nil
}
