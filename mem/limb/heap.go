package limb

import (
	"fmt"
	"strings"

	"github.com/joshuapare/memkit/mem"
)

// Heap-native operations. Each resolves its operand addresses to 16-byte
// regions once, then works on the heap bytes in place.

func region(h *mem.Heap, addr mem.Addr) ([]byte, error) {
	b, err := h.Region(addr, Bytes)
	if err != nil {
		return nil, fmt.Errorf("limb: operand @%d: %w", addr, err)
	}
	return b, nil
}

// Add computes dst = a + b and returns the final carry (0 or 1). A carry of
// 1 means the mathematical sum crossed 2^128. dst may equal a or b.
func (o *Ops) Add(h *mem.Heap, dst, a, b mem.Addr) (uint16, error) {
	rd, err := region(h, dst)
	if err != nil {
		return 0, err
	}
	ra, err := region(h, a)
	if err != nil {
		return 0, err
	}
	rb, err := region(h, b)
	if err != nil {
		return 0, err
	}
	return o.addRegions(rd, ra, rb), nil
}

// Sub computes dst = a - b and returns the final borrow (0 or 1). A borrow
// of 1 means b exceeded a. dst may equal a or b.
func (o *Ops) Sub(h *mem.Heap, dst, a, b mem.Addr) (uint16, error) {
	rd, err := region(h, dst)
	if err != nil {
		return 0, err
	}
	ra, err := region(h, a)
	if err != nil {
		return 0, err
	}
	rb, err := region(h, b)
	if err != nil {
		return 0, err
	}
	return o.subRegions(rd, ra, rb), nil
}

// Compare compares the values at a and b as unsigned 128-bit integers,
// returning -1, 0, or 1.
func (o *Ops) Compare(h *mem.Heap, a, b mem.Addr) (int, error) {
	ra, err := region(h, a)
	if err != nil {
		return 0, err
	}
	rb, err := region(h, b)
	if err != nil {
		return 0, err
	}
	return compareRegions(ra, rb), nil
}

// ShiftLeft computes dst = src << n and returns the spill: the exact
// magnitude of the bits that moved past the 128-bit boundary (saturating at
// MaxUint64, see accumulateSpill). Any shift count is legal; n >= 128
// leaves dst zero with the whole source value as spill.
func (o *Ops) ShiftLeft(h *mem.Heap, dst, src mem.Addr, n uint) (uint64, error) {
	rd, err := region(h, dst)
	if err != nil {
		return 0, err
	}
	rs, err := region(h, src)
	if err != nil {
		return 0, err
	}
	return o.shiftLeftRegions(rd, rs, n), nil
}

// ShiftRight computes dst = src >> n (zero-filling) and returns the spill:
// the magnitude of the bits shifted out past bit zero.
func (o *Ops) ShiftRight(h *mem.Heap, dst, src mem.Addr, n uint) (uint64, error) {
	rd, err := region(h, dst)
	if err != nil {
		return 0, err
	}
	rs, err := region(h, src)
	if err != nil {
		return 0, err
	}
	return o.shiftRightRegions(rd, rs, n), nil
}

// Zero clears the value at addr.
func (o *Ops) Zero(h *mem.Heap, addr mem.Addr) error {
	b, err := region(h, addr)
	if err != nil {
		return err
	}
	for i := range b[:Bytes] {
		b[i] = 0
	}
	return nil
}

// WriteUint64 stores v into the low four limbs at addr and clears the high
// four.
func (o *Ops) WriteUint64(h *mem.Heap, addr mem.Addr, v uint64) error {
	b, err := region(h, addr)
	if err != nil {
		return err
	}
	for i := 0; i < Limbs; i++ {
		setLimb(b, i, uint16(v%limbBase))
		v = v / limbBase
	}
	return nil
}

// ReadUint64 returns the low 64 bits of the value at addr.
func (o *Ops) ReadUint64(h *mem.Heap, addr mem.Addr) (uint64, error) {
	b, err := region(h, addr)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := Limbs/2 - 1; i >= 0; i-- {
		v = v*limbBase + uint64(getLimb(b, i))
	}
	return v, nil
}

// HexBE renders the value at addr as 32 big-endian hex digits.
func (o *Ops) HexBE(h *mem.Heap, addr mem.Addr) (string, error) {
	b, err := region(h, addr)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := Limbs - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%04x", getLimb(b, i))
	}
	return sb.String(), nil
}

// Copy duplicates the value at src into dst.
func (o *Ops) Copy(h *mem.Heap, dst, src mem.Addr) error {
	rd, err := region(h, dst)
	if err != nil {
		return err
	}
	rs, err := region(h, src)
	if err != nil {
		return err
	}
	copy(rd[:Bytes], rs[:Bytes])
	return nil
}
