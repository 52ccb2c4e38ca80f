// Package genutil implements the random/adversarial test-input
// generator spec.md §1 names as an external collaborator ("random
// test-input generation") but never specifies further. Its two modes
// are lifted directly from the original engine's companion generator
// (original_source/test_gen.cpp): a descending-block worst case (the
// pattern the original always produced, its uniform-random branch
// having been commented out) and a uniform-random mode (the original's
// dead code path, enabled here as an option).
package genutil

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
)

// defaultBlockSize mirrors the original generator's DEFAULT_BLOCK_SIZE
// (1 << 20): the number of elements buffered in RAM between writes.
const defaultBlockSize = 1 << 20

// Options configures Generate.
type Options struct {
	// Random selects uniform-random values in [1, count] instead of
	// the default descending-block pattern.
	Random bool
	// Seed seeds the PRNG used when Random is set. Ignored otherwise.
	Seed int64
}

// Generate writes a file-of-elements file at path containing count
// elements (spec.md §3, §6's CLI generator companion).
func Generate(path string, count uint64, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("genutil: create %s: %w", path, err)
	}
	defer f.Close()

	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], count)
	if _, err := f.Write(header[:]); err != nil {
		return fmt.Errorf("genutil: write header: %w", err)
	}

	block := make([]uint64, defaultBlockSize)
	raw := make([]byte, defaultBlockSize*8)

	var rng *rand.Rand
	if opts.Random {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	for i := uint64(0); i < count; {
		written := uint64(defaultBlockSize)
		if count-i < written {
			written = count - i
		}

		if opts.Random {
			for j := uint64(0); j < written; j++ {
				block[j] = 1 + uint64(rng.Int63n(int64(count)))
			}
		} else {
			// Matches test_gen.cpp's `block[j] = written - j`: a
			// descending run repeated per block, not a single
			// globally-unique descending sequence.
			for j := uint64(0); j < written; j++ {
				block[j] = written - j
			}
		}

		for j := uint64(0); j < written; j++ {
			binary.LittleEndian.PutUint64(raw[j*8:], block[j])
		}
		if _, err := f.Write(raw[:written*8]); err != nil {
			return fmt.Errorf("genutil: write block at offset %d: %w", i, err)
		}
		i += written
	}

	return nil
}
