// Package buf contains helpers for endian-safe decoding and overflow-safe
// integer arithmetic used beneath the heap and allocator.
package buf

import "encoding/binary"

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short,
// which makes it safe on untrusted or truncated images where the strict
// readers would panic.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}
