package sortengine

import (
	"fmt"
	"io"
	"os"
)

// DoMergeSort orchestrates the cascading merge (spec.md §4.5): it runs
// the producer, then repeatedly folds up to fanIn runs from the pool
// into a rolling scratch run until one remains, and finally merges
// that last run with the scratch run straight into output.
//
// mem is the engine's single working-memory array; it is partitioned
// into fanIn+1 equal shares, one per run taking part in a given merge
// step plus one permanently reserved for the rolling scratch run — the
// same fixed-size partition scheme the original engine's block_size =
// ram_size/(rank+1) uses, without its pointer arithmetic.
//
// The two edge cases spec.md §4.5 calls out by name (empty pool after
// production, single-run pool) are not special-cased here: the pool
// invariants guarantee the cascading loop's post-state is always
// |pool| <= 1, so the single "merge what's left, plus the rolling
// scratch, into output" tail below handles the empty-input echo case
// (|pool| == 0) and the single-run case (|pool| == 1) identically.
func DoMergeSort(input, output *os.File, mem []uint64, memoryElems, fanIn int, tempDir, namePattern string) error {
	if err := validateBudget(memoryElems, fanIn); err != nil {
		return err
	}

	pool, _, err := Produce(input, mem, memoryElems, tempDir, namePattern)
	if err != nil {
		return fmt.Errorf("sortengine: produce: %w", err)
	}

	share := memoryElems / (fanIn + 1)
	shareBuf := func(i int) []uint64 {
		return mem[i*share : (i+1)*share]
	}
	resultBuf := shareBuf(fanIn)

	result, err := pool.GetWithBuffer(elemSize, share)
	if err != nil {
		return fmt.Errorf("sortengine: claim scratch run: %w", err)
	}

	for pool.Size() > 1 {
		take := min(fanIn, pool.Size())
		pulled := make([]*Run, take)
		inputFiles := make([]*os.File, take)
		inputBufs := make([][]uint64, take)

		for j := 0; j < take; j++ {
			r, err := pool.GetWithBuffer(elemSize, share)
			if err != nil {
				return fmt.Errorf("sortengine: pull run %d of pass: %w", j, err)
			}
			pulled[j] = r
			inputFiles[j] = r.file
			inputBufs[j] = shareBuf(j)
		}

		if _, err := result.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("sortengine: rewind scratch run: %w", err)
		}
		if _, err := Merge(inputFiles, inputBufs, result.file, resultBuf); err != nil {
			return fmt.Errorf("sortengine: merge pass: %w", err)
		}

		if err := pool.Put(result); err != nil {
			return fmt.Errorf("sortengine: requeue scratch run: %w", err)
		}
		for j := 1; j < take; j++ {
			if err := pool.Release(pulled[j]); err != nil && !IsCleanupWarning(err) {
				return fmt.Errorf("sortengine: release run %d: %w", pulled[j].id, err)
			}
		}

		result = pulled[0]
		if _, err := result.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("sortengine: rewind new scratch run: %w", err)
		}
		if err := writeHeader(result.file, 0); err != nil {
			return fmt.Errorf("sortengine: reset new scratch run: %w", err)
		}
	}

	var last *os.File
	var lastBuf []uint64
	var lastRun *Run
	if pool.Size() == 1 {
		lastRun, err = pool.GetWithBuffer(elemSize, share)
		if err != nil {
			return fmt.Errorf("sortengine: pull final run: %w", err)
		}
		last = lastRun.file
		lastBuf = shareBuf(0)
	} else {
		if _, err := input.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("sortengine: rewind input for empty-input echo: %w", err)
		}
		last = input
		lastBuf = shareBuf(0)
	}

	if _, err := result.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("sortengine: rewind scratch run for final merge: %w", err)
	}
	outBuf := shareBuf(1)
	if _, err := Merge([]*os.File{last, result.file}, [][]uint64{lastBuf, resultBuf}, output, outBuf); err != nil {
		return fmt.Errorf("sortengine: final merge: %w", err)
	}

	if lastRun != nil {
		if err := pool.Release(lastRun); err != nil && !IsCleanupWarning(err) {
			return fmt.Errorf("sortengine: release final run: %w", err)
		}
	}
	if err := pool.Release(result); err != nil && !IsCleanupWarning(err) {
		return fmt.Errorf("sortengine: release scratch run: %w", err)
	}
	return nil
}

func validateBudget(memoryElems, fanIn int) error {
	if fanIn < 2 {
		return fmt.Errorf("%w: fan-in must be >= 2, got %d", ErrBudgetTooSmall, fanIn)
	}
	if memoryElems < fanIn+1 {
		return fmt.Errorf("%w: need >= %d elements for fan-in %d, got %d", ErrBudgetTooSmall, fanIn+1, fanIn, memoryElems)
	}
	return nil
}
