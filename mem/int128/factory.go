package int128

import (
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/bitops"
	"github.com/joshuapare/memkit/mem/limb"
)

// Factory creates heap-resident 128-bit values. All values from one
// factory share its arena and its bit engine mode.
type Factory struct {
	arena *alloc.Arena
	ops   *limb.Ops
}

// NewFactory binds an arena to a limb operation set in the given mode.
func NewFactory(arena *alloc.Arena, mode bitops.Mode) (*Factory, error) {
	ops, err := limb.NewOps(mode)
	if err != nil {
		return nil, err
	}
	return &Factory{arena: arena, ops: ops}, nil
}

// Arena returns the allocator backing this factory's values.
func (f *Factory) Arena() *alloc.Arena { return f.arena }

// Ops returns the limb operation set used by this factory.
func (f *Factory) Ops() *limb.Ops { return f.ops }

func (f *Factory) heap() *mem.Heap { return f.arena.Heap() }

// allocValue grabs a zeroed 16-byte slot from the arena.
func (f *Factory) allocValue() (mem.Addr, error) {
	addr, err := f.arena.Malloc(limb.Bytes)
	if err != nil {
		return mem.NullAddr, err
	}
	if err := f.ops.Zero(f.heap(), addr); err != nil {
		f.arena.Free(addr)
		return mem.NullAddr, err
	}
	return addr, nil
}

// Unsigned allocates a new unsigned value holding zero.
func (f *Factory) Unsigned() (*Unsigned, error) {
	addr, err := f.allocValue()
	if err != nil {
		return nil, err
	}
	return &Unsigned{f: f, addr: addr}, nil
}

// UnsignedFromUint64 allocates an unsigned value holding v.
func (f *Factory) UnsignedFromUint64(v uint64) (*Unsigned, error) {
	u, err := f.Unsigned()
	if err != nil {
		return nil, err
	}
	if err := u.SetUint64(v); err != nil {
		u.Free()
		return nil, err
	}
	return u, nil
}

// UnsignedMax allocates an unsigned value holding 2^128 - 1.
func (f *Factory) UnsignedMax() (*Unsigned, error) {
	u, err := f.Unsigned()
	if err != nil {
		return nil, err
	}
	v := limb.Value{}
	for i := range v {
		v[i] = 0xffff
	}
	if err := v.Store(f.heap(), u.addr); err != nil {
		u.Free()
		return nil, err
	}
	return u, nil
}

// Signed allocates a new signed value holding zero.
func (f *Factory) Signed() (*Signed, error) {
	addr, err := f.allocValue()
	if err != nil {
		return nil, err
	}
	return &Signed{f: f, addr: addr}, nil
}

// SignedFromInt64 allocates a signed value holding v, sign-extended to
// 128 bits.
func (f *Factory) SignedFromInt64(v int64) (*Signed, error) {
	s, err := f.Signed()
	if err != nil {
		return nil, err
	}
	if err := s.SetInt64(v); err != nil {
		s.Free()
		return nil, err
	}
	return s, nil
}

// newSigned allocates a signed value holding v.
func (f *Factory) newSigned(v limb.Value) (*Signed, error) {
	s, err := f.Signed()
	if err != nil {
		return nil, err
	}
	if err := s.store(v); err != nil {
		s.Free()
		return nil, err
	}
	return s, nil
}

// signBit reports whether the two's complement sign bit of v is set. The
// test goes through the engine so arithmetic mode stays operator-free.
func (f *Factory) signBit(v limb.Value) bool {
	set, err := f.ops.Engine().BitTest(uint64(v[limb.Limbs-1]), limb.LimbBits-1)
	if err != nil {
		return false
	}
	return set
}

// negate returns the two's complement of v, computed as 0 - v.
func (f *Factory) negate(v limb.Value) limb.Value {
	out, _ := f.ops.SubValues(limb.Value{}, v)
	return out
}

// sar performs an arithmetic (sign filling) right shift of v by n bits.
func (f *Factory) sar(v limb.Value, n uint) limb.Value {
	if n == 0 {
		return v
	}
	neg := f.signBit(v)
	if n >= limb.Limbs*limb.LimbBits {
		var out limb.Value
		if neg {
			for i := range out {
				out[i] = 0xffff
			}
		}
		return out
	}
	out, _ := f.ops.ShiftRightValues(v, n)
	if !neg {
		return out
	}
	eng := f.ops.Engine()
	q := int(n / limb.LimbBits)
	r := n % limb.LimbBits
	for i := 0; i < q; i++ {
		out[limb.Limbs-1-i] = 0xffff
	}
	if r > 0 {
		full, _ := eng.Mask(limb.LimbBits)
		low, _ := eng.Mask(limb.LimbBits - r)
		out[limb.Limbs-1-q] = uint16(eng.Or(uint64(out[limb.Limbs-1-q]), full-low))
	}
	return out
}
