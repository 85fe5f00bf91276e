package bitops

// Pure-arithmetic bitwise primitives. Everything in this file is built from
// addition, subtraction, multiplication, and division/modulo by powers of
// two. No host shift or bitwise operator appears below this comment; that
// constraint is the whole point — results cannot pick up platform-specific
// promotion or shift-width quirks, so every execution backend computes the
// same bits.

// pow2 holds 2^0 .. 2^63, built by doubling.
var pow2 = func() [64]uint64 {
	var t [64]uint64
	p := uint64(1)
	for i := 0; i < 64; i++ {
		t[i] = p
		p = p * 2
	}
	return t
}()

// PureMask returns the all-ones value of the given width (width in 1..64).
func PureMask(width uint) uint64 {
	if width >= 64 {
		return (pow2[63]-1)*2 + 1
	}
	return pow2[width] - 1
}

// pureTrunc reduces v modulo 2^width.
func pureTrunc(v uint64, width uint) uint64 {
	if width >= 64 {
		return v
	}
	return v % pow2[width]
}

// PureZeroExtend truncates v to its low `from` bits.
func PureZeroExtend(v uint64, from uint) uint64 {
	return pureTrunc(v, from)
}

// PureSignExtend interprets the low `from` bits of v as two's-complement and
// extends the sign through bit width-1.
func PureSignExtend(v uint64, from, width uint) uint64 {
	v = pureTrunc(v, from)
	if from >= width {
		return v
	}
	sign := (v / pow2[from-1]) % 2
	if sign == 1 {
		return v + (PureMask(width) - PureMask(from))
	}
	return v
}

// PureShiftLeft shifts v left by n within width bits. It returns the
// truncated value and the carry: the bits pushed beyond the width.
func PureShiftLeft(v uint64, n, width uint) (value, carry uint64) {
	v = pureTrunc(v, width)
	switch {
	case n == 0:
		return v, 0
	case n >= width:
		return 0, v
	case n%8 == 0:
		return pureShiftLeftBytes(v, n, width)
	}
	keep := width - n
	carry = v / pow2[keep]
	return (v % pow2[keep]) * pow2[n], carry
}

// PureShiftRightLogical shifts v right by n within width bits, zero-filling.
// The carry is the bits pushed out past bit zero.
func PureShiftRightLogical(v uint64, n, width uint) (value, carry uint64) {
	v = pureTrunc(v, width)
	switch {
	case n == 0:
		return v, 0
	case n >= width:
		return 0, v
	case n%8 == 0:
		return pureShiftRightBytes(v, n, width)
	}
	return v / pow2[n], v % pow2[n]
}

// PureShiftRightArith shifts v right by n within width bits, filling vacated
// high bits with the sign bit.
func PureShiftRightArith(v uint64, n, width uint) (value, carry uint64) {
	v = pureTrunc(v, width)
	sign := v / pow2[width-1]
	if n == 0 {
		return v, 0
	}
	if n >= width {
		if sign == 1 {
			return PureMask(width), v
		}
		return 0, v
	}
	value = v / pow2[n]
	carry = v % pow2[n]
	if sign == 1 {
		value += PureMask(width) - PureMask(width-n)
	}
	return value, carry
}

// pureShiftLeftBytes is the byte-aligned fast path: whole bytes move without
// per-bit work. n is a nonzero multiple of 8 below width.
func pureShiftLeftBytes(v uint64, n, width uint) (value, carry uint64) {
	nb := n / 8
	wb := width / 8
	var bs [8]uint64
	for i := uint(0); i < wb; i++ {
		bs[i] = v % 256
		v = v / 256
	}
	p := uint64(1)
	for i := uint(0); i < wb; i++ {
		if i >= nb {
			value += bs[i-nb] * p
		}
		p = p * 256
	}
	p = 1
	for i := wb - nb; i < wb; i++ {
		carry += bs[i] * p
		p = p * 256
	}
	return value, carry
}

// pureShiftRightBytes mirrors pureShiftLeftBytes for right shifts.
func pureShiftRightBytes(v uint64, n, width uint) (value, carry uint64) {
	nb := n / 8
	wb := width / 8
	var bs [8]uint64
	for i := uint(0); i < wb; i++ {
		bs[i] = v % 256
		v = v / 256
	}
	p := uint64(1)
	for i := nb; i < wb; i++ {
		value += bs[i] * p
		p = p * 256
	}
	p = 1
	for i := uint(0); i < nb; i++ {
		carry += bs[i] * p
		p = p * 256
	}
	return value, carry
}

// PureAnd computes a & b across width bits, one digit at a time.
func PureAnd(a, b uint64, width uint) uint64 {
	a = pureTrunc(a, width)
	b = pureTrunc(b, width)
	var r uint64
	for i := uint(0); i < width; i++ {
		r += ((a / pow2[i]) % 2) * ((b / pow2[i]) % 2) * pow2[i]
	}
	return r
}

// PureOr computes a | b across width bits.
func PureOr(a, b uint64, width uint) uint64 {
	a = pureTrunc(a, width)
	b = pureTrunc(b, width)
	var r uint64
	for i := uint(0); i < width; i++ {
		ba := (a / pow2[i]) % 2
		bb := (b / pow2[i]) % 2
		r += (ba + bb - ba*bb) * pow2[i]
	}
	return r
}

// PureXor computes a ^ b across width bits.
func PureXor(a, b uint64, width uint) uint64 {
	a = pureTrunc(a, width)
	b = pureTrunc(b, width)
	var r uint64
	for i := uint(0); i < width; i++ {
		ba := (a / pow2[i]) % 2
		bb := (b / pow2[i]) % 2
		r += (ba + bb - 2*ba*bb) * pow2[i]
	}
	return r
}

// PureNot computes ^v within width bits. For an already-truncated v this is
// exactly mask - v.
func PureNot(v uint64, width uint) uint64 {
	return PureMask(width) - pureTrunc(v, width)
}

// PureBit extracts bit i of v as 0 or 1.
func PureBit(v uint64, i uint) uint64 {
	return (v / pow2[i]) % 2
}

// PurePopCount counts the set bits in the low width bits of v.
func PurePopCount(v uint64, width uint) int {
	v = pureTrunc(v, width)
	n := 0
	for v > 0 {
		n += int(v % 2)
		v = v / 2
	}
	return n
}

// PureBytes decomposes v into width/8 little-endian bytes.
func PureBytes(v uint64, width uint) []byte {
	v = pureTrunc(v, width)
	out := make([]byte, width/8)
	for i := range out {
		out[i] = byte(v % 256)
		v = v / 256
	}
	return out
}

// PureFromBytes composes little-endian bytes into a value.
func PureFromBytes(bs []byte) uint64 {
	var v uint64
	p := uint64(1)
	for _, b := range bs {
		v += uint64(b) * p
		p = p * 256
	}
	return v
}
