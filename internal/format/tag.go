package format

// Boundary tag encoding.
//
// Tag layout (little-endian uint32):
//
//	bit  0      in-use flag (1 = allocated, 0 = free)
//	bits 1..31  total chunk size in bytes, including both tags
//
// A chunk stores the same tag value twice: as a header at the chunk start and
// as a footer in the chunk's last 4 bytes. Matching header/footer pairs allow
// constant-time lookup of the chunk immediately before or after any chunk
// without scanning.

// PutTag writes a boundary tag at off.
func PutTag(b []byte, off int, size int, inUse bool) {
	tag := uint32(size) << 1
	if inUse {
		tag |= 1
	}
	PutU32(b, off, tag)
}

// ReadTag decodes the boundary tag at off.
func ReadTag(b []byte, off int) (size int, inUse bool) {
	return DecodeTag(ReadU32(b, off))
}

// DecodeTag splits a raw tag word into its size and in-use flag. Useful when
// the word was obtained some other way than ReadTag, such as a tolerant read
// from an untrusted image.
func DecodeTag(tag uint32) (size int, inUse bool) {
	return int(tag >> 1), tag&1 == 1
}

// ChunkSize returns the total chunk size required to hold a payload of n
// bytes: payload plus both tags, rounded up to the chunk alignment, never
// below the minimum chunk size.
func ChunkSize(n int) int {
	s := AlignChunk(n + ChunkOverhead)
	if s < MinChunkSize {
		s = MinChunkSize
	}
	return s
}

// FooterOffset returns the offset of the footer tag for a chunk starting at
// off with total size size.
func FooterOffset(off, size int) int {
	return off + size - TagSize
}
