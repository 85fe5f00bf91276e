package limb

import (
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/mem"
)

// Value is a transient, heap-independent 128-bit quantity. It carries the
// same limb layout as the heap form, so values round-trip through Load and
// Store without conversion.
type Value [Limbs]uint16

// Load reads a Value from the heap.
func Load(h *mem.Heap, addr mem.Addr) (Value, error) {
	var v Value
	b, err := region(h, addr)
	if err != nil {
		return v, err
	}
	for i := 0; i < Limbs; i++ {
		v[i] = getLimb(b, i)
	}
	return v, nil
}

// Store writes v to the heap.
func (v Value) Store(h *mem.Heap, addr mem.Addr) error {
	b, err := region(h, addr)
	if err != nil {
		return err
	}
	for i := 0; i < Limbs; i++ {
		setLimb(b, i, v[i])
	}
	return nil
}

// ValueFromUint64 builds a Value holding v.
func ValueFromUint64(v uint64) Value {
	var out Value
	for i := 0; i < Limbs; i++ {
		out[i] = uint16(v % limbBase)
		v = v / limbBase
	}
	return out
}

// Uint64 returns the low 64 bits of v.
func (v Value) Uint64() uint64 {
	var out uint64
	for i := Limbs/2 - 1; i >= 0; i-- {
		out = out*limbBase + uint64(v[i])
	}
	return out
}

// IsZero reports whether every limb is zero.
func (v Value) IsZero() bool {
	for i := 0; i < Limbs; i++ {
		if v[i] != 0 {
			return false
		}
	}
	return true
}

func (v Value) bytes() [Bytes]byte {
	var b [Bytes]byte
	for i := 0; i < Limbs; i++ {
		format.PutU16(b[:], 2*i, v[i])
	}
	return b
}

func valueFromBytes(b []byte) Value {
	var v Value
	for i := 0; i < Limbs; i++ {
		v[i] = format.ReadU16(b, 2*i)
	}
	return v
}

// AddValues returns a + b and the final carry.
func (o *Ops) AddValues(a, b Value) (Value, uint16) {
	ab, bb := a.bytes(), b.bytes()
	var db [Bytes]byte
	carry := o.addRegions(db[:], ab[:], bb[:])
	return valueFromBytes(db[:]), carry
}

// SubValues returns a - b and the final borrow.
func (o *Ops) SubValues(a, b Value) (Value, uint16) {
	ab, bb := a.bytes(), b.bytes()
	var db [Bytes]byte
	borrow := o.subRegions(db[:], ab[:], bb[:])
	return valueFromBytes(db[:]), borrow
}

// CompareValues compares a and b as unsigned 128-bit integers.
func (o *Ops) CompareValues(a, b Value) int {
	ab, bb := a.bytes(), b.bytes()
	return compareRegions(ab[:], bb[:])
}

// ShiftLeftValues returns v << n and the spill past bit 127.
func (o *Ops) ShiftLeftValues(v Value, n uint) (Value, uint64) {
	vb := v.bytes()
	var db [Bytes]byte
	spill := o.shiftLeftRegions(db[:], vb[:], n)
	return valueFromBytes(db[:]), spill
}

// ShiftRightValues returns v >> n and the spill past bit zero.
func (o *Ops) ShiftRightValues(v Value, n uint) (Value, uint64) {
	vb := v.bytes()
	var db [Bytes]byte
	spill := o.shiftRightRegions(db[:], vb[:], n)
	return valueFromBytes(db[:]), spill
}
