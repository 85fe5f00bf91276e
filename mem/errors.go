package mem

import "errors"

var (
	// ErrOOB indicates an address or range outside the heap's current size.
	ErrOOB = errors.New("mem: address out of range")

	// ErrHeapLimit indicates a growth request beyond the maximum heap size.
	ErrHeapLimit = errors.New("mem: heap size limit exceeded")

	// ErrBadSize indicates a negative or otherwise malformed size argument.
	ErrBadSize = errors.New("mem: bad size")

	// ErrClosed indicates an operation on a closed heap.
	ErrClosed = errors.New("mem: heap closed")

	// ErrOverlap indicates overlapping Memcpy ranges, detected only when
	// debug checks are enabled. Overlapping Memcpy is undefined behavior.
	ErrOverlap = errors.New("mem: memcpy ranges overlap")
)
