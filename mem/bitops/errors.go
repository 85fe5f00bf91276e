package bitops

import "errors"

var (
	// ErrInvalidWidth indicates an engine width other than 8, 16, 32, or 64.
	ErrInvalidWidth = errors.New("bitops: width must be 8, 16, 32, or 64")

	// ErrShiftRange indicates a shift amount outside [0, width].
	ErrShiftRange = errors.New("bitops: shift amount out of range")

	// ErrBitRange indicates a bit index outside [0, width).
	ErrBitRange = errors.New("bitops: bit index out of range")

	// ErrWidthRange indicates a mask or extend width outside (0, width].
	ErrWidthRange = errors.New("bitops: width argument out of range")

	// ErrBadLength indicates a byte slice whose length does not match the
	// engine width.
	ErrBadLength = errors.New("bitops: byte length does not match width")
)
