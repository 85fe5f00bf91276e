// Package alloc implements a general-purpose allocator over the emulated
// heap: malloc/calloc/realloc/free with boundary tags and segregated free
// lists.
//
// # Overview
//
// The Arena manages one Heap. Every allocation is a chunk: a 4-byte header
// tag, the payload, and a 4-byte footer tag holding the same value. Tags
// encode (size << 1) | inUse, so the chunk before or after any chunk is
// reachable in constant time — that is what makes coalescing O(1).
//
// # Search order
//
// Malloc rounds the request up to a 16-byte-aligned chunk size and then
// tries, in order:
//
//  1. The size-class bins, starting at the matching bin, first-fit
//  2. The large free list (chunks above the bin ceiling), first-fit
//  3. Bump allocation at the heap frontier, growing the heap if needed
//
// A hit larger than needed by at least the minimum chunk size is split; the
// remainder becomes a new free chunk in its size-appropriate list.
//
// # Free and coalescing
//
// Free marks the chunk free, inspects the preceding chunk's footer and the
// following chunk's header, merges with free neighbors, and inserts the
// result into the bin or large list its size dictates. A free chunk carries a
// singly-linked "next free" offset in its first payload bytes; offset 0
// terminates a list, which works because chunk 0 can never exist — the arena
// reserves a 12-byte permanently-allocated guard at the heap base, so payload
// addresses start at 16 and address 0 is the null sentinel.
//
// # Failure modes
//
// Requests the heap cannot satisfy even after growth fail with
// ErrOutOfMemory. Freeing an address that was never allocated, double
// freeing, and touching a payload after free are undefined behavior by
// contract and are not defended against in the release path. With
// MEMKIT_DEBUG set (or Config.Checked), boundary-tag consistency is verified
// on free and coalesce and surfaces as ErrCorrupt.
//
// # Thread safety
//
// Arena instances are not thread-safe. Callers must serialize access
// externally or use one Arena per goroutine.
package alloc
