// Package mem implements the emulated process memory: one contiguous,
// growable, little-endian byte buffer addressed by integer offsets.
//
// # Overview
//
// A Heap is created once, grows in whole 4KB pages, and is torn down once.
// Addresses are plain offsets wrapped in the Addr type; once issued, an
// address stays valid until the heap is closed — growth appends capacity and
// never relocates existing content. Two backings exist:
//
//   - New: an anonymous in-memory buffer
//   - OpenFile: a file mapped read-write (unix), or buffered file I/O on
//     other platforms, with Sync flushing the image to disk
//
// # Typed access
//
// Load/Store accessors exist for 8/16/32/64-bit integers and for 32/64-bit
// IEEE-754 values, which travel through the same little-endian integer path
// as raw bit patterns. All accessors bounds-check and return ErrOOB rather
// than truncating.
//
// # Bulk operations
//
// Memcpy, Memmove, and Memset mirror their C namesakes. Memmove is correct
// for overlapping ranges; Memcpy's behavior on overlap is undefined by
// contract (a debug check exists behind MEMKIT_DEBUG).
//
// # Thread safety
//
// A Heap is shared mutable state and is not thread-safe. Callers must
// serialize access externally or use separate Heap instances.
package mem
