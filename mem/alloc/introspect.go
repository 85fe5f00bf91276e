package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/format"
)

// ChunkInfo describes one chunk during an arena walk.
type ChunkInfo struct {
	Off  int  // Chunk start offset (header tag)
	Size int  // Total size including tags
	Free bool // In-use flag, inverted
}

// Chunks walks every chunk from the first chunk to the bump frontier using
// header tags. A walk that does not land exactly on the frontier, or that
// meets an impossible tag, reports ErrCorrupt. Intended for the verifier and
// diagnostic tooling, not hot paths.
func (a *Arena) Chunks() ([]ChunkInfo, error) {
	data := a.h.Bytes()
	var out []ChunkInfo
	off := format.FirstChunkOffset
	for off < a.bump {
		if off+format.TagSize > a.bump {
			return nil, fmt.Errorf("alloc: walk: truncated tag at %d: %w", off, ErrCorrupt)
		}
		size, used := format.ReadTag(data, off)
		if size < format.MinChunkSize || size%format.ChunkAlignment != 0 || off+size > a.bump {
			return nil, fmt.Errorf("alloc: walk: impossible size %d at %d: %w", size, off, ErrCorrupt)
		}
		out = append(out, ChunkInfo{Off: off, Size: size, Free: !used})
		off += size
	}
	if off != a.bump {
		return nil, fmt.Errorf("alloc: walk: overran frontier (%d != %d): %w", off, a.bump, ErrCorrupt)
	}
	return out, nil
}

// FreeOffsets collects the chunk offsets currently on any free list, bins
// first, then the large list.
func (a *Arena) FreeOffsets() []int {
	data := a.h.Bytes()
	var out []int
	walk := func(head uint32) {
		for cur := head; cur != freeListNil; {
			out = append(out, int(cur))
			cur = format.ReadU32(data, int(cur)+format.TagSize)
		}
	}
	for _, head := range a.bins {
		walk(head)
	}
	walk(a.largeFree)
	return out
}
