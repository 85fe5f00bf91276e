package format

// Alignment utilities for the heap layout. Chunk sizes are rounded to 16-byte
// boundaries and heap growth is rounded to whole 4KB pages.

// AlignChunk returns n aligned up to the next 16-byte boundary.
//
// Example:
//
//	AlignChunk(1)  = 16
//	AlignChunk(16) = 16
//	AlignChunk(17) = 32
func AlignChunk(n int) int {
	return AlignUp(n, ChunkAlignment)
}

// AlignPage returns n aligned up to the next 4KB (4096-byte) boundary.
//
// Example:
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n int) int {
	return AlignUp(n, PageSize)
}

// AlignUp returns n aligned up to the next multiple of align. align must be a
// power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) & ^(align - 1)
}
