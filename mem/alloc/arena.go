package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/trace"
	"github.com/joshuapare/memkit/mem"
)

// freeListNil terminates a free list. Chunk offset 0 can never exist: the
// base guard occupies it.
const freeListNil = 0

// Arena is a general-purpose allocator over one Heap.
type Arena struct {
	h   *mem.Heap
	cfg Config

	// Segregated free lists: bins[i] holds the chunk offset of the first
	// free chunk in size class i, linked through payload words.
	bins []uint32

	// Large free list head for chunks above the bin ceiling.
	largeFree uint32

	// bump marks the first byte past the last carved chunk. Everything from
	// bump to the heap end is virgin space.
	bump int

	stats Stats
}

// NewArena creates an allocator over h. A nil config selects DefaultConfig.
// The arena writes its base guard chunk at heap offset 0; the heap must be
// fresh (or at least sacrificial) — the arena owns its layout from here on.
func NewArena(h *mem.Heap, config *Config) (*Arena, error) {
	cfg := DefaultConfig
	if config != nil {
		cfg = *config
	}
	if !cfg.Checked {
		cfg.Checked = trace.DebugChecks
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := h.EnsureCapacity(format.PageSize); err != nil {
		return nil, fmt.Errorf("alloc: init heap: %w", err)
	}

	a := &Arena{
		h:    h,
		cfg:  cfg,
		bins: make([]uint32, cfg.numBins()),
		bump: format.FirstChunkOffset,
	}

	// Base guard: a permanently-allocated pseudo-chunk at offset 0. It keeps
	// address 0 un-issuable and gives the first real chunk an in-use left
	// neighbor, so backward coalescing terminates without a bounds branch.
	data := h.Bytes()
	format.PutTag(data, 0, format.BaseGuardSize, true)
	format.PutTag(data, format.BaseGuardSize-format.TagSize, format.BaseGuardSize, true)

	return a, nil
}

// Heap returns the underlying heap.
func (a *Arena) Heap() *mem.Heap { return a.h }

// Frontier returns the bump pointer: the first heap offset no chunk has
// reached yet.
func (a *Arena) Frontier() int { return a.bump }

// Config returns the arena's effective configuration.
func (a *Arena) Config() Config { return a.cfg }

// Malloc allocates n bytes and returns the payload address, aligned to 16
// bytes. Fails with ErrBadSize for n <= 0 and ErrOutOfMemory when the heap
// cannot be grown to fit.
func (a *Arena) Malloc(n int) (mem.Addr, error) {
	a.stats.AllocCalls++
	if n <= 0 {
		return mem.NullAddr, fmt.Errorf("alloc: malloc(%d): %w", n, ErrBadSize)
	}
	need := format.ChunkSize(n)

	off, size, ok := a.takeFit(need)
	if ok {
		a.stats.ListAllocs++
	} else {
		var err error
		off, err = a.bumpAlloc(need)
		if err != nil {
			return mem.NullAddr, err
		}
		size = need
		a.stats.BumpAllocs++
	}

	// Split when the leftover is itself a legal chunk; otherwise absorb it.
	if size-need >= format.MinChunkSize {
		a.stats.SplitCount++
		a.setChunk(off, need, true)
		a.pushFree(off+need, size-need)
		if trace.AllocEnabled {
			trace.Allocf("split: off=%d size=%d -> used=%d free=%d", off, size, need, size-need)
		}
		size = need
	} else {
		a.setChunk(off, size, true)
	}

	a.stats.BytesAllocated += int64(size)
	if trace.AllocEnabled {
		trace.Allocf("malloc(%d): off=%d chunk=%d", n, off, size)
	}
	return mem.Addr(off + format.TagSize), nil
}

// Calloc allocates count*size bytes and zero-fills them. Fails with
// ErrSizeOverflow when the multiplication overflows and ErrBadSize when
// either argument is not positive.
func (a *Arena) Calloc(count, size int) (mem.Addr, error) {
	if count <= 0 || size <= 0 {
		return mem.NullAddr, fmt.Errorf("alloc: calloc(%d, %d): %w", count, size, ErrBadSize)
	}
	n, ok := buf.MulOverflowSafe(count, size)
	if !ok {
		return mem.NullAddr, fmt.Errorf("alloc: calloc(%d, %d): %w", count, size, ErrSizeOverflow)
	}
	addr, err := a.Malloc(n)
	if err != nil {
		return mem.NullAddr, err
	}
	// Reused chunks carry stale payload bytes (at minimum the old free-list
	// link), so the zero fill is mandatory, not cosmetic.
	if err := a.h.Memset(addr, 0, n); err != nil {
		return mem.NullAddr, err
	}
	return addr, nil
}

// Free releases the allocation at addr, coalescing with free neighbors in
// constant time via boundary tags. Freeing an address that is not a live
// allocation is undefined behavior; with checks enabled it surfaces as
// ErrCorrupt or ErrBadAddr instead.
func (a *Arena) Free(addr mem.Addr) error {
	a.stats.FreeCalls++
	off := int(addr) - format.TagSize
	if addr == mem.NullAddr || off < format.FirstChunkOffset || off >= a.bump {
		return fmt.Errorf("alloc: free(%d): %w", addr, ErrBadAddr)
	}

	data := a.h.Bytes()
	size, used := format.ReadTag(data, off)
	if a.cfg.Checked {
		if err := a.checkChunk(off, size, used, true); err != nil {
			return err
		}
	}
	a.stats.BytesFreed += int64(size)
	return a.freeChunk(off, size)
}

// freeChunk coalesces the chunk at off with free neighbors and inserts the
// result into its list. The chunk's tags are rewritten by pushFree.
func (a *Arena) freeChunk(off, size int) error {
	data := a.h.Bytes()

	// Forward: the following chunk's header sits at off+size. Only chunks
	// below the bump frontier exist.
	next := off + size
	if next+format.TagSize <= a.bump {
		nsize, nused := format.ReadTag(data, next)
		if !nused {
			if a.cfg.Checked {
				if err := a.checkChunk(next, nsize, nused, false); err != nil {
					return err
				}
			}
			a.removeFromList(next, nsize)
			size += nsize
			a.stats.CoalesceForward++
		}
	}

	// Backward: the preceding chunk's footer sits just below our header.
	// The base guard is permanently in-use, so this terminates at the heap
	// base without a special case.
	psize, pused := format.ReadTag(data, off-format.TagSize)
	if !pused && psize >= format.MinChunkSize && off-psize >= format.FirstChunkOffset {
		prev := off - psize
		if a.cfg.Checked {
			hsize, hused := format.ReadTag(data, prev)
			if hsize != psize || hused != pused {
				return fmt.Errorf("alloc: chunk %d header/footer disagree (%d/%d): %w",
					prev, hsize, psize, ErrCorrupt)
			}
		}
		a.removeFromList(prev, psize)
		size += psize
		off = prev
		a.stats.CoalesceBackward++
	}

	a.pushFree(off, size)
	if trace.AllocEnabled {
		trace.Allocf("free: off=%d chunk=%d", off, size)
	}
	return nil
}

// Realloc resizes the allocation at addr to n bytes. Shrinking splits off and
// frees a tail chunk when the remainder is itself a legal chunk; growing
// allocates fresh, copies, and frees the old chunk. Realloc(NullAddr, n)
// behaves as Malloc(n).
func (a *Arena) Realloc(addr mem.Addr, n int) (mem.Addr, error) {
	a.stats.ReallocCalls++
	if addr == mem.NullAddr {
		return a.Malloc(n)
	}
	if n <= 0 {
		return mem.NullAddr, fmt.Errorf("alloc: realloc(%d, %d): %w", addr, n, ErrBadSize)
	}
	off := int(addr) - format.TagSize
	if off < format.FirstChunkOffset || off >= a.bump {
		return mem.NullAddr, fmt.Errorf("alloc: realloc(%d): %w", addr, ErrBadAddr)
	}

	data := a.h.Bytes()
	size, used := format.ReadTag(data, off)
	if a.cfg.Checked {
		if err := a.checkChunk(off, size, used, true); err != nil {
			return mem.NullAddr, err
		}
	}

	need := format.ChunkSize(n)
	switch {
	case need == size:
		return addr, nil

	case need < size:
		if size-need >= format.MinChunkSize {
			a.stats.SplitCount++
			a.setChunk(off, need, true)
			if err := a.freeChunk(off+need, size-need); err != nil {
				return mem.NullAddr, err
			}
			a.stats.BytesFreed += int64(size - need)
		}
		return addr, nil

	default:
		// Grow: no in-place absorption of a following free chunk, by
		// contract. Fresh chunk, copy, release.
		newAddr, err := a.Malloc(n)
		if err != nil {
			return mem.NullAddr, err
		}
		oldPayload := size - format.ChunkOverhead
		if oldPayload > n {
			oldPayload = n
		}
		if err := a.h.Memcpy(newAddr, addr, oldPayload); err != nil {
			return mem.NullAddr, err
		}
		if err := a.Free(addr); err != nil {
			return mem.NullAddr, err
		}
		return newAddr, nil
	}
}

// UsableSize returns the payload capacity of the allocation at addr, which
// may exceed the requested size because of alignment and absorbed splits.
func (a *Arena) UsableSize(addr mem.Addr) (int, error) {
	off := int(addr) - format.TagSize
	if addr == mem.NullAddr || off < format.FirstChunkOffset || off >= a.bump {
		return 0, fmt.Errorf("alloc: usable size(%d): %w", addr, ErrBadAddr)
	}
	size, used := format.ReadTag(a.h.Bytes(), off)
	if !used {
		return 0, fmt.Errorf("alloc: usable size(%d): chunk is free: %w", addr, ErrBadAddr)
	}
	return size - format.ChunkOverhead, nil
}

// ---------------------------------------------------------------------------
// Free-list internals
// ---------------------------------------------------------------------------

// takeFit removes and returns a free chunk of at least need bytes, searching
// the matching bin first-fit, any larger bins, and finally the large list.
func (a *Arena) takeFit(need int) (off, size int, ok bool) {
	if bi := a.cfg.binIndex(need); bi >= 0 {
		for ; bi < len(a.bins); bi++ {
			if off, size, ok = a.takeFromList(&a.bins[bi], need); ok {
				return off, size, true
			}
		}
	}
	return a.takeFromList(&a.largeFree, need)
}

// takeFromList unlinks the first chunk in the list with size >= need.
func (a *Arena) takeFromList(head *uint32, need int) (int, int, bool) {
	data := a.h.Bytes()
	prev := uint32(freeListNil)
	cur := *head
	for cur != freeListNil {
		size, _ := format.ReadTag(data, int(cur))
		link := format.ReadU32(data, int(cur)+format.TagSize)
		if size >= need {
			if prev == freeListNil {
				*head = link
			} else {
				format.PutU32(data, int(prev)+format.TagSize, link)
			}
			return int(cur), size, true
		}
		prev = cur
		cur = link
	}
	return 0, 0, false
}

// removeFromList unlinks the chunk at off from the list its size dictates.
// Used during coalescing, where the neighbor is known free.
func (a *Arena) removeFromList(off, size int) {
	head := &a.largeFree
	if bi := a.cfg.binIndex(size); bi >= 0 {
		head = &a.bins[bi]
	}
	data := a.h.Bytes()
	prev := uint32(freeListNil)
	cur := *head
	for cur != freeListNil {
		link := format.ReadU32(data, int(cur)+format.TagSize)
		if int(cur) == off {
			if prev == freeListNil {
				*head = link
			} else {
				format.PutU32(data, int(prev)+format.TagSize, link)
			}
			return
		}
		prev = cur
		cur = link
	}
}

// pushFree writes free tags for the chunk and inserts it at the head of its
// size-appropriate list.
func (a *Arena) pushFree(off, size int) {
	a.setChunk(off, size, false)
	data := a.h.Bytes()
	head := &a.largeFree
	if bi := a.cfg.binIndex(size); bi >= 0 {
		head = &a.bins[bi]
	}
	format.PutU32(data, off+format.TagSize, *head)
	*head = uint32(off)
}

// setChunk writes the header and footer boundary tags for a chunk.
func (a *Arena) setChunk(off, size int, used bool) {
	data := a.h.Bytes()
	format.PutTag(data, off, size, used)
	format.PutTag(data, format.FooterOffset(off, size), size, used)
}

// bumpAlloc carves a brand-new chunk of exactly need bytes at the frontier,
// growing the heap when the frontier would pass its end.
func (a *Arena) bumpAlloc(need int) (int, error) {
	end := a.bump + need
	if end > a.cfg.MaxSize {
		return 0, fmt.Errorf("alloc: need %d at frontier %d exceeds max size %d: %w",
			need, a.bump, a.cfg.MaxSize, ErrOutOfMemory)
	}
	if end > a.h.Size() {
		a.stats.GrowCalls++
		a.stats.GrowBytes += int64(format.AlignPage(end) - a.h.Size())
		if trace.AllocEnabled {
			trace.Allocf("grow: frontier=%d need=%d heap=%d", a.bump, need, a.h.Size())
		}
		if err := a.h.EnsureCapacity(end); err != nil {
			return 0, fmt.Errorf("alloc: grow to %d: %w", end, ErrOutOfMemory)
		}
	}
	off := a.bump
	a.bump = end
	return off, nil
}

// checkChunk validates a chunk's tags in debug mode. wantUsed asserts the
// in-use flag; the footer must always match the header.
func (a *Arena) checkChunk(off, size int, used, wantUsed bool) error {
	if size < format.MinChunkSize || size%format.ChunkAlignment != 0 || off+size > a.bump {
		return fmt.Errorf("alloc: chunk %d has impossible size %d: %w", off, size, ErrCorrupt)
	}
	if used != wantUsed {
		return fmt.Errorf("alloc: chunk %d in-use=%v, want %v: %w", off, used, wantUsed, ErrCorrupt)
	}
	fsize, fused := format.ReadTag(a.h.Bytes(), format.FooterOffset(off, size))
	if fsize != size || fused != used {
		return fmt.Errorf("alloc: chunk %d header (%d,%v) != footer (%d,%v): %w",
			off, size, used, fsize, fused, ErrCorrupt)
	}
	return nil
}
