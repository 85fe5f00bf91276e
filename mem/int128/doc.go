// Package int128 provides 128-bit integer values that live inside an
// allocator-managed heap.
//
// A Factory binds an alloc.Arena to a limb operation set. Values created
// through the factory occupy 16-byte heap allocations and are manipulated
// in place; arithmetic routes through the factory's bit engine, so a
// factory built in arithmetic mode performs every bit-level step without
// native shift or mask operators.
//
// Unsigned values report range violations as errors: Add fails with
// ErrOverflow when the sum crosses 2^128, Sub fails with ErrUnderflow when
// the subtrahend is larger, and ShiftLeft fails when any set bit would be
// discarded. Signed values use two's complement over the same 16 bytes and
// apply the usual sign rules for overflow detection.
//
// Values are explicitly freed. Forgetting Free leaks the backing chunk
// until the arena is discarded, exactly as with a raw Malloc.
package int128
