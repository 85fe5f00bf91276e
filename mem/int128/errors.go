package int128

import "errors"

var (
	// ErrOverflow is returned when a result exceeds the representable range.
	ErrOverflow = errors.New("int128: overflow")

	// ErrUnderflow is returned when an unsigned subtraction would go below
	// zero.
	ErrUnderflow = errors.New("int128: underflow")
)
