// Package format defines the binary layout of the emulated heap: boundary-tag
// encoding, chunk geometry, alignment rules, and little-endian integer
// encoding helpers shared by the heap, the allocator, and the verifier.
package format

const (
	// TagSize is the size in bytes of one boundary tag. Every chunk carries
	// two: a header immediately before the payload and an identical-value
	// footer at the end of the chunk.
	TagSize = 4

	// ChunkOverhead is the bookkeeping cost per chunk (header + footer).
	ChunkOverhead = 2 * TagSize

	// MinChunkSize is the minimum total chunk size including both tags.
	// Chunks smaller than this are illegal and never created.
	MinChunkSize = 16

	// PayloadAlign is the alignment of every payload address returned by the
	// allocator.
	PayloadAlign = 16

	// BaseGuardSize is the size of the permanently-allocated guard chunk
	// written at heap offset 0. It reserves address 0 as the null sentinel
	// and places the first real payload at offset 16: chunk starts stay
	// congruent to 12 mod 16, so payload = chunk + TagSize is 16-aligned.
	BaseGuardSize = 12

	// FirstChunkOffset is where the first allocatable chunk begins.
	FirstChunkOffset = BaseGuardSize

	// FreeLinkSize is the size of the "next free" link stored in the first
	// payload bytes of a free chunk.
	FreeLinkSize = 4
)

const (
	// ChunkAlignment is the chunk size granularity. Chunk sizes are always
	// multiples of 16, which is what keeps payloads 16-aligned.
	ChunkAlignment = 16

	// PageSize is the granularity of heap growth. The backing buffer always
	// grows in whole pages so repeated bump allocations amortize the copy or
	// remap cost.
	PageSize = 4096
)

// MaxHeapSize is the maximum heap size in bytes. Chunk sizes must round-trip
// through the 31 usable bits of a boundary tag, so the heap cannot exceed
// 2GB - 1.
const MaxHeapSize = 0x7FFFFFFF
