// Package limb implements 128-bit integer arithmetic over 8 little-endian
// limbs of 16 bits each (base 2^16, limb 0 least significant).
//
// The heap-native operations read and write operand limbs directly at their
// heap addresses and never materialize an intermediate array — arithmetic on
// heap-resident values costs no allocation. Sub-limb bit manipulation routes
// through a 16-bit bitops.Engine, so the backend mode (Native or Arithmetic)
// decides how every bit is actually computed.
package limb

import (
	"math"

	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/mem/bitops"
)

const (
	// Limbs is the number of limbs in a 128-bit value.
	Limbs = 8

	// LimbBits is the width of one limb.
	LimbBits = 16

	// Bytes is the storage size of one 128-bit value.
	Bytes = 16

	// limbBase is the radix: one limb counts in base 2^16.
	limbBase = 1 << LimbBits
)

// Ops bundles the engine that backs all limb-level bit manipulation. One Ops
// value is reusable across any number of operations and values.
type Ops struct {
	eng *bitops.Engine
}

// NewOps builds limb operations over a 16-bit engine in the given mode.
func NewOps(mode bitops.Mode) (*Ops, error) {
	eng, err := bitops.NewEngine(mode, LimbBits)
	if err != nil {
		return nil, err
	}
	return &Ops{eng: eng}, nil
}

// Engine exposes the backing engine (for diagnostics and tests).
func (o *Ops) Engine() *bitops.Engine { return o.eng }

// ---------------------------------------------------------------------------
// Core algorithms over 16-byte little-endian regions
// ---------------------------------------------------------------------------

func getLimb(b []byte, i int) uint16 {
	return format.ReadU16(b, 2*i)
}

func setLimb(b []byte, i int, v uint16) {
	format.PutU16(b, 2*i, v)
}

// addRegions computes dst = a + b limb by limb, propagating the carry in
// base 2^16. dst may alias a or b. Returns the final carry (0 or 1).
func (o *Ops) addRegions(dst, a, b []byte) uint16 {
	var carry uint64
	for i := 0; i < Limbs; i++ {
		sum := uint64(getLimb(a, i)) + uint64(getLimb(b, i)) + carry
		carry = sum / limbBase
		setLimb(dst, i, uint16(sum%limbBase))
	}
	return uint16(carry)
}

// subRegions computes dst = a - b limb by limb, propagating the borrow.
// Returns the final borrow (0 or 1).
func (o *Ops) subRegions(dst, a, b []byte) uint16 {
	var borrow uint64
	for i := 0; i < Limbs; i++ {
		t := uint64(limbBase) + uint64(getLimb(a, i)) - uint64(getLimb(b, i)) - borrow
		setLimb(dst, i, uint16(t%limbBase))
		borrow = 1 - t/limbBase
	}
	return uint16(borrow)
}

// compareRegions compares a and b lexicographically from the most
// significant limb down, returning -1, 0, or 1.
func compareRegions(a, b []byte) int {
	for i := Limbs - 1; i >= 0; i-- {
		la, lb := getLimb(a, i), getLimb(b, i)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
	}
	return 0
}

// shiftLeftRegions computes dst = src << n, returning the spill: the
// magnitude of the bits that crossed the 128-bit boundary. The shift is
// decomposed into a whole-limb move (n/16) and a sub-limb shift (n%16)
// whose inter-limb carries go through the engine. dst may alias src.
func (o *Ops) shiftLeftRegions(dst, src []byte, n uint) uint64 {
	if n == 0 {
		copy(dst, src[:Bytes])
		return 0
	}
	q := int(n / LimbBits)
	r := n % LimbBits

	limb := func(i int) uint64 {
		if i < 0 || i >= Limbs {
			return 0
		}
		return uint64(getLimb(src, i))
	}

	// Conceptual result limb k of the 256-bit product src * 2^n.
	out := func(k int) uint64 {
		if r == 0 {
			return limb(k - q)
		}
		lo, _ := o.eng.ShiftLeft(limb(k-q), r)
		hi, _ := o.eng.ShiftLeft(limb(k-q-1), r)
		return o.eng.Or(lo.Value, hi.Carry)
	}

	// Spill first: conceptual limbs at and above the boundary read src
	// before dst is touched. out(k) is nonzero only for k in [q, q+8], so
	// the scan covers [max(Limbs, q), q+Limbs] and stays at most 9 limbs
	// long no matter how large the count is.
	var spill uint64
	sat := false
	start := Limbs
	if q > start {
		start = q
	}
	for k := start; k <= q+Limbs; k++ {
		if k-Limbs >= 64/LimbBits {
			// Bit offsets past 63 saturate; handling them here keeps
			// LimbBits*(k-Limbs) within int range for extreme counts.
			if out(k) != 0 {
				sat = true
			}
			continue
		}
		accumulateSpill(&spill, &sat, out(k), LimbBits*(k-Limbs))
	}

	// High to low so an aliased dst never clobbers a limb before it is read.
	for k := Limbs - 1; k >= 0; k-- {
		setLimb(dst, k, uint16(out(k)))
	}
	if sat {
		return math.MaxUint64
	}
	return spill
}

// shiftRightRegions computes dst = src >> n (logical, zero-filling),
// returning the spill: the magnitude of the bits shifted out past bit zero.
// dst may alias src.
func (o *Ops) shiftRightRegions(dst, src []byte, n uint) uint64 {
	if n == 0 {
		copy(dst, src[:Bytes])
		return 0
	}
	q := int(n / LimbBits)
	r := n % LimbBits

	limb := func(i int) uint64 {
		if i < 0 || i >= Limbs {
			return 0
		}
		return uint64(getLimb(src, i))
	}

	// Spill: whole limbs below the shift point plus the low r bits of the
	// boundary limb.
	var spill uint64
	sat := false
	for i := 0; i < q && i < Limbs; i++ {
		accumulateSpill(&spill, &sat, limb(i), LimbBits*i)
	}
	if r > 0 && q < Limbs {
		res, _ := o.eng.UnsignedShiftRight(limb(q), r)
		accumulateSpill(&spill, &sat, res.Carry, LimbBits*q)
	}

	out := func(i int) uint64 {
		if r == 0 {
			return limb(i + q)
		}
		lo, _ := o.eng.UnsignedShiftRight(limb(i+q), r)
		hi, _ := o.eng.ShiftLeft(limb(i+q+1), LimbBits-r)
		return o.eng.Or(lo.Value, hi.Value)
	}

	// Low to high so an aliased dst never clobbers a limb before it is read.
	for i := 0; i < Limbs; i++ {
		setLimb(dst, i, uint16(out(i)))
	}
	if sat {
		return math.MaxUint64
	}
	return spill
}

// accumulateSpill adds part * 2^bitoff into spill. The spill is exact while
// it fits in 64 bits and saturates to MaxUint64 beyond that; nonzero-ness is
// always exact, which is all overflow detection needs.
func accumulateSpill(spill *uint64, sat *bool, part uint64, bitoff int) {
	if part == 0 {
		return
	}
	if bitoff >= 64 {
		*sat = true
		return
	}
	scale := uint64(1)
	for i := 0; i < bitoff; i++ {
		scale = scale * 2
	}
	if part > (math.MaxUint64-*spill)/scale {
		*sat = true
		return
	}
	*spill += part * scale
}
