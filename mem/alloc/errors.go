package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the heap cannot be grown enough to satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadSize indicates a zero, negative, or otherwise malformed size request.
	ErrBadSize = errors.New("alloc: bad size")

	// ErrBadAddr indicates an address that cannot be a payload address of this arena.
	ErrBadAddr = errors.New("alloc: bad address")

	// ErrSizeOverflow indicates a count*size multiplication overflow in Calloc.
	ErrSizeOverflow = errors.New("alloc: size multiplication overflow")

	// ErrCorrupt indicates a boundary-tag mismatch discovered during free or
	// coalescing, implying prior heap corruption. Only raised when debug
	// checks are enabled.
	ErrCorrupt = errors.New("alloc: boundary tag corruption")
)
