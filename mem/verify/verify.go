// Package verify provides validation functions for allocator heap structures.
// These helpers are used in tests to ensure arena invariants are maintained.
package verify

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/mem/alloc"
)

// Error types for different validation failures.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all arena invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(a *alloc.Arena) error {
	if err := BaseGuard(a); err != nil {
		return err
	}
	if err := ChunkStructure(a); err != nil {
		return err
	}
	if err := FreeLists(a); err != nil {
		return err
	}
	if err := Coalescing(a); err != nil {
		return err
	}
	return nil
}

// BaseGuard validates the permanently allocated guard chunk at offset zero.
func BaseGuard(a *alloc.Arena) error {
	data := a.Heap().Bytes()
	if len(data) < format.FirstChunkOffset {
		return &ValidationError{
			Type:    "BaseGuard",
			Message: fmt.Sprintf("heap too small: %d bytes (need %d)", len(data), format.FirstChunkOffset),
			Offset:  -1,
		}
	}
	size, used := format.ReadTag(data, 0)
	if !used || size != format.BaseGuardSize {
		return &ValidationError{
			Type:    "BaseGuard",
			Message: fmt.Sprintf("bad guard header: size=%d used=%v (want %d, true)", size, used, format.BaseGuardSize),
			Offset:  0,
		}
	}
	fsize, fused := format.ReadTag(data, format.FooterOffset(0, format.BaseGuardSize))
	if !fused || fsize != format.BaseGuardSize {
		return &ValidationError{
			Type:    "BaseGuard",
			Message: fmt.Sprintf("bad guard footer: size=%d used=%v", fsize, fused),
			Offset:  format.FooterOffset(0, format.BaseGuardSize),
		}
	}
	return nil
}

// ChunkStructure validates that the chunk walk tiles the managed region
// exactly and every chunk carries matching header and footer tags.
func ChunkStructure(a *alloc.Arena) error {
	data := a.Heap().Bytes()
	chunks, err := a.Chunks()
	if err != nil {
		return &ValidationError{
			Type:    "ChunkStructure",
			Message: err.Error(),
			Offset:  -1,
		}
	}
	if a.Frontier() > len(data) {
		return &ValidationError{
			Type:    "ChunkStructure",
			Message: fmt.Sprintf("frontier beyond heap: frontier=0x%X, heap=0x%X", a.Frontier(), len(data)),
			Offset:  -1,
		}
	}
	for _, c := range chunks {
		hsize, hused := format.ReadTag(data, c.Off)
		fsize, fused := format.ReadTag(data, format.FooterOffset(c.Off, c.Size))
		if hsize != fsize || hused != fused {
			return &ValidationError{
				Type:    "ChunkStructure",
				Message: fmt.Sprintf("tag mismatch: header=(%d,%v), footer=(%d,%v)", hsize, hused, fsize, fused),
				Offset:  c.Off,
				Details: map[string]interface{}{
					"header_size": hsize,
					"footer_size": fsize,
				},
			}
		}
		if c.Off%format.ChunkAlignment != format.FirstChunkOffset%format.ChunkAlignment {
			return &ValidationError{
				Type:    "ChunkStructure",
				Message: fmt.Sprintf("misaligned chunk start: 0x%X", c.Off),
				Offset:  c.Off,
			}
		}
	}
	return nil
}

// FreeLists validates that every free list entry is a free chunk in the
// walk, that bin membership matches chunk size, and that every free chunk
// appears on exactly one list.
func FreeLists(a *alloc.Arena) error {
	data := a.Heap().Bytes()
	chunks, err := a.Chunks()
	if err != nil {
		return &ValidationError{Type: "FreeLists", Message: err.Error(), Offset: -1}
	}
	freeInWalk := make(map[int]int, len(chunks))
	for _, c := range chunks {
		if c.Free {
			freeInWalk[c.Off] = c.Size
		}
	}

	listed := make(map[int]bool)
	for _, off := range a.FreeOffsets() {
		if listed[off] {
			return &ValidationError{
				Type:    "FreeLists",
				Message: "chunk appears on a free list twice",
				Offset:  off,
			}
		}
		listed[off] = true
		size, ok := freeInWalk[off]
		if !ok {
			return &ValidationError{
				Type:    "FreeLists",
				Message: "listed chunk is not a free chunk in the walk",
				Offset:  off,
			}
		}
		tagSize, used := format.ReadTag(data, off)
		if used || tagSize != size {
			return &ValidationError{
				Type:    "FreeLists",
				Message: fmt.Sprintf("listed chunk tag disagrees with walk: tag=(%d,%v), walk=%d", tagSize, used, size),
				Offset:  off,
			}
		}
	}

	for off := range freeInWalk {
		if !listed[off] {
			return &ValidationError{
				Type:    "FreeLists",
				Message: "free chunk missing from every free list",
				Offset:  off,
				Details: map[string]interface{}{
					"size": freeInWalk[off],
				},
			}
		}
	}
	return nil
}

// Coalescing validates that no two adjacent chunks are both free. Freeing
// merges eagerly, so adjacency of free chunks means a merge was missed.
func Coalescing(a *alloc.Arena) error {
	chunks, err := a.Chunks()
	if err != nil {
		return &ValidationError{Type: "Coalescing", Message: err.Error(), Offset: -1}
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i-1].Free && chunks[i].Free {
			return &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("adjacent free chunks at 0x%X and 0x%X", chunks[i-1].Off, chunks[i].Off),
				Offset:  chunks[i].Off,
				Details: map[string]interface{}{
					"prev_size": chunks[i-1].Size,
					"next_size": chunks[i].Size,
				},
			}
		}
	}
	return nil
}

// Fingerprint hashes the managed region up to the bump frontier. Two
// arenas that went through the same operation sequence produce the same
// fingerprint, which makes drift between allocator configurations cheap to
// detect in tests.
func Fingerprint(a *alloc.Arena) uint64 {
	data := a.Heap().Bytes()
	end := a.Frontier()
	if end > len(data) {
		end = len(data)
	}
	return xxhash.Sum64(data[:end])
}
