package sortengine

import (
	"fmt"
	"os"
)

// Merge reads from up to len(inputFiles) input blocks and writes a
// single merged run to output, preserving the length-prefixed
// file-of-elements format (spec.md §4.4). inputFiles and output must
// each be positioned at offset 0. inputBufs[i] is the working-memory
// partition assigned to inputFiles[i]; outputBuf is the partition
// assigned to the output.
//
// Tie-breaking across input streams is unspecified by the underlying
// algorithm's contract beyond "some consistent rule" — this
// implementation picks first-index-wins: an input is only displaced
// by a strictly smaller value, so among equal candidates the
// lowest-indexed input is always emitted first (spec.md §9(b)).
//
// The streaming (one element at a time) and block-structured (refill
// on demand, flush on full) shapes described in spec.md §4.4 are
// observationally equivalent; this merges in the block-structured
// shape for I/O efficiency while emitting byte-identical output to the
// pure streaming form.
func Merge(inputFiles []*os.File, inputBufs [][]uint64, output *os.File, outputBuf []uint64) (uint64, error) {
	if len(inputFiles) != len(inputBufs) {
		return 0, fmt.Errorf("sortengine: merge: %d input files but %d buffers", len(inputFiles), len(inputBufs))
	}

	blocks := make([]*Block, len(inputFiles))
	var total uint64
	for i, f := range inputFiles {
		b, err := CreateInputBlock(f, inputBufs[i])
		if err != nil {
			return 0, fmt.Errorf("sortengine: merge: input %d: %w", i, err)
		}
		blocks[i] = b
		total += b.DeclaredSize()
	}

	out, err := CreateOutputBlock(output, total, outputBuf)
	if err != nil {
		return 0, fmt.Errorf("sortengine: merge: output: %w", err)
	}

	for {
		best := -1
		for i, b := range blocks {
			if b.Empty() && b.HasExternalData() {
				if err := b.ReadNextBlock(); err != nil {
					return 0, fmt.Errorf("sortengine: merge: refill input %d: %w", i, err)
				}
			}
			if b.Empty() {
				continue
			}
			if best == -1 || b.Peek() < blocks[best].Peek() {
				best = i
			}
		}
		if best == -1 {
			break
		}

		if out.Full() {
			if err := out.Flush(); err != nil {
				return 0, fmt.Errorf("sortengine: merge: flush output: %w", err)
			}
		}
		out.Push(blocks[best].Next())
	}

	if err := out.Flush(); err != nil {
		return 0, fmt.Errorf("sortengine: merge: final flush: %w", err)
	}
	return total, nil
}
