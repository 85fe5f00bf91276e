package bitops

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/memkit/internal/trace"
)

// Mode selects the execution backend of an Engine.
type Mode uint8

const (
	// Native delegates to host shift/bitwise operators.
	Native Mode = iota
	// Arithmetic routes through the pure-arithmetic primitives for
	// cross-backend determinism.
	Arithmetic
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Native:
		return "native"
	case Arithmetic:
		return "arithmetic"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "native":
		return Native, nil
	case "arithmetic", "arith":
		return Arithmetic, nil
	default:
		return 0, fmt.Errorf("bitops: unknown mode %q", s)
	}
}

// ShiftResult carries the outcome of a shift operation.
type ShiftResult struct {
	Value    uint64 // Result, truncated to the engine width
	Carry    uint64 // Bits shifted past the width boundary (or past bit 0)
	Overflow bool   // Carry != 0
}

// Engine is an immutable (mode, width) configuration. It holds no operand
// state; one engine can serve arbitrarily many calls from any goroutine.
type Engine struct {
	mode  Mode
	width uint
	mask  uint64
}

// NewEngine builds an engine for the given mode and bit width (8, 16, 32, or 64).
func NewEngine(mode Mode, width uint) (*Engine, error) {
	switch width {
	case 8, 16, 32, 64:
	default:
		return nil, fmt.Errorf("bitops: new engine: %w (%d)", ErrInvalidWidth, width)
	}
	if mode != Native && mode != Arithmetic {
		return nil, fmt.Errorf("bitops: new engine: unknown mode %d", mode)
	}
	if trace.ArithEnabled {
		trace.Arithf("engine: mode=%s width=%d", mode, width)
	}
	return &Engine{mode: mode, width: width, mask: PureMask(width)}, nil
}

// Mode returns the engine's backend mode.
func (e *Engine) Mode() Mode { return e.mode }

// Width returns the configured bit width.
func (e *Engine) Width() uint { return e.width }

// trunc reduces v to the engine width.
func (e *Engine) trunc(v uint64) uint64 {
	if e.mode == Arithmetic {
		return pureTrunc(v, e.width)
	}
	return v & e.mask
}

func (e *Engine) checkShift(n uint) error {
	if n > e.width {
		return fmt.Errorf("bitops: shift by %d on %d-bit engine: %w", n, e.width, ErrShiftRange)
	}
	return nil
}

// ShiftLeft shifts v left by n bits. The carry is the bits that crossed the
// width boundary; overflow reports whether any did.
func (e *Engine) ShiftLeft(v uint64, n uint) (ShiftResult, error) {
	if err := e.checkShift(n); err != nil {
		return ShiftResult{}, err
	}
	var value, carry uint64
	if e.mode == Arithmetic {
		value, carry = PureShiftLeft(v, n, e.width)
	} else {
		v &= e.mask
		switch {
		case n == 0:
			value, carry = v, 0
		case n == e.width:
			value, carry = 0, v
		default:
			value = (v << n) & e.mask
			carry = v >> (e.width - n)
		}
	}
	return ShiftResult{Value: value, Carry: carry, Overflow: carry != 0}, nil
}

// ShiftRight shifts v right by n bits arithmetically: vacated high bits take
// the sign bit's value. The carry is the bits shifted out past bit zero.
func (e *Engine) ShiftRight(v uint64, n uint) (ShiftResult, error) {
	if err := e.checkShift(n); err != nil {
		return ShiftResult{}, err
	}
	var value, carry uint64
	if e.mode == Arithmetic {
		value, carry = PureShiftRightArith(v, n, e.width)
	} else {
		v &= e.mask
		sign := v >> (e.width - 1)
		switch {
		case n == 0:
			value, carry = v, 0
		case n == e.width:
			carry = v
			if sign == 1 {
				value = e.mask
			}
		default:
			value = v >> n
			carry = v & ((uint64(1) << n) - 1)
			if sign == 1 {
				value |= e.mask - (e.mask >> n)
			}
		}
	}
	return ShiftResult{Value: value, Carry: carry, Overflow: carry != 0}, nil
}

// UnsignedShiftRight shifts v right by n bits, zero-filling from the top.
func (e *Engine) UnsignedShiftRight(v uint64, n uint) (ShiftResult, error) {
	if err := e.checkShift(n); err != nil {
		return ShiftResult{}, err
	}
	var value, carry uint64
	if e.mode == Arithmetic {
		value, carry = PureShiftRightLogical(v, n, e.width)
	} else {
		v &= e.mask
		switch {
		case n == 0:
			value, carry = v, 0
		case n == e.width:
			value, carry = 0, v
		default:
			value = v >> n
			carry = v & ((uint64(1) << n) - 1)
		}
	}
	return ShiftResult{Value: value, Carry: carry, Overflow: carry != 0}, nil
}

// And returns a & b within the engine width.
func (e *Engine) And(a, b uint64) uint64 {
	if e.mode == Arithmetic {
		return PureAnd(a, b, e.width)
	}
	return (a & b) & e.mask
}

// Or returns a | b within the engine width.
func (e *Engine) Or(a, b uint64) uint64 {
	if e.mode == Arithmetic {
		return PureOr(a, b, e.width)
	}
	return (a | b) & e.mask
}

// Xor returns a ^ b within the engine width.
func (e *Engine) Xor(a, b uint64) uint64 {
	if e.mode == Arithmetic {
		return PureXor(a, b, e.width)
	}
	return (a ^ b) & e.mask
}

// Not returns ^v within the engine width.
func (e *Engine) Not(v uint64) uint64 {
	if e.mode == Arithmetic {
		return PureNot(v, e.width)
	}
	return (^v) & e.mask
}

func (e *Engine) checkBit(i uint) error {
	if i >= e.width {
		return fmt.Errorf("bitops: bit %d on %d-bit engine: %w", i, e.width, ErrBitRange)
	}
	return nil
}

// BitTest reports whether bit i of v is set.
func (e *Engine) BitTest(v uint64, i uint) (bool, error) {
	if err := e.checkBit(i); err != nil {
		return false, err
	}
	if e.mode == Arithmetic {
		return PureBit(pureTrunc(v, e.width), i) == 1, nil
	}
	return (v&e.mask)&(uint64(1)<<i) != 0, nil
}

// BitSet returns v with bit i set.
func (e *Engine) BitSet(v uint64, i uint) (uint64, error) {
	if err := e.checkBit(i); err != nil {
		return 0, err
	}
	if e.mode == Arithmetic {
		v = pureTrunc(v, e.width)
		if PureBit(v, i) == 0 {
			v += pow2[i]
		}
		return v, nil
	}
	return (v | (uint64(1) << i)) & e.mask, nil
}

// BitClear returns v with bit i cleared.
func (e *Engine) BitClear(v uint64, i uint) (uint64, error) {
	if err := e.checkBit(i); err != nil {
		return 0, err
	}
	if e.mode == Arithmetic {
		v = pureTrunc(v, e.width)
		if PureBit(v, i) == 1 {
			v -= pow2[i]
		}
		return v, nil
	}
	return (v &^ (uint64(1) << i)) & e.mask, nil
}

// BitToggle returns v with bit i flipped.
func (e *Engine) BitToggle(v uint64, i uint) (uint64, error) {
	if err := e.checkBit(i); err != nil {
		return 0, err
	}
	if e.mode == Arithmetic {
		v = pureTrunc(v, e.width)
		if PureBit(v, i) == 1 {
			return v - pow2[i], nil
		}
		return v + pow2[i], nil
	}
	return (v ^ (uint64(1) << i)) & e.mask, nil
}

// PopCount returns the number of set bits in the low width bits of v.
func (e *Engine) PopCount(v uint64) int {
	if e.mode == Arithmetic {
		return PurePopCount(v, e.width)
	}
	return bits.OnesCount64(v & e.mask)
}

// Mask returns the all-ones value of an arbitrary width w, 0 < w <= the
// engine width.
func (e *Engine) Mask(w uint) (uint64, error) {
	if w == 0 || w > e.width {
		return 0, fmt.Errorf("bitops: mask width %d on %d-bit engine: %w", w, e.width, ErrWidthRange)
	}
	return PureMask(w), nil
}

// SignExtend interprets the low `from` bits of v as two's-complement and
// extends the sign through the engine width.
func (e *Engine) SignExtend(v uint64, from uint) (uint64, error) {
	if from == 0 || from > e.width {
		return 0, fmt.Errorf("bitops: sign extend from %d on %d-bit engine: %w",
			from, e.width, ErrWidthRange)
	}
	if e.mode == Arithmetic {
		return PureSignExtend(v, from, e.width), nil
	}
	v &= (uint64(1) << from) - 1
	if from < 64 && v&(uint64(1)<<(from-1)) != 0 {
		v |= e.mask &^ ((uint64(1) << from) - 1)
	}
	return v & e.mask, nil
}

// ZeroExtend truncates v to its low `from` bits.
func (e *Engine) ZeroExtend(v uint64, from uint) (uint64, error) {
	if from == 0 || from > e.width {
		return 0, fmt.Errorf("bitops: zero extend from %d on %d-bit engine: %w",
			from, e.width, ErrWidthRange)
	}
	if e.mode == Arithmetic {
		return PureZeroExtend(v, from), nil
	}
	if from == 64 {
		return v, nil
	}
	return v & ((uint64(1) << from) - 1), nil
}

// Bytes decomposes v into width/8 little-endian bytes.
func (e *Engine) Bytes(v uint64) []byte {
	if e.mode == Arithmetic {
		return PureBytes(v, e.width)
	}
	v &= e.mask
	out := make([]byte, e.width/8)
	for i := range out {
		out[i] = byte(v >> (8 * uint(i)))
	}
	return out
}

// FromBytes composes little-endian bytes into a value. The slice length must
// equal the engine width in bytes.
func (e *Engine) FromBytes(bs []byte) (uint64, error) {
	if uint(len(bs)) != e.width/8 {
		return 0, fmt.Errorf("bitops: %d bytes on %d-bit engine: %w", len(bs), e.width, ErrBadLength)
	}
	if e.mode == Arithmetic {
		return PureFromBytes(bs), nil
	}
	var v uint64
	for i := len(bs) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(bs[i])
	}
	return v, nil
}
