package sortengine

import "encoding/binary"

// encodeElements packs vals into dst as little-endian u64s, exactly
// the file-of-elements payload encoding (spec.md §3). dst must be at
// least 8*len(vals) bytes.
func encodeElements(dst []byte, vals []uint64) {
	for i, v := range vals {
		binary.LittleEndian.PutUint64(dst[i*8:], v)
	}
}

// decodeElements unpacks a little-endian u64 payload from src into
// dst, returning the number of complete elements decoded.
func decodeElements(dst []uint64, src []byte) int {
	n := len(src) / 8
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint64(src[i*8:])
	}
	return n
}
