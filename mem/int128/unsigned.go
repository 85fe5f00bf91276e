package int128

import (
	"github.com/joshuapare/memkit/internal/hexutil"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/limb"
)

// Unsigned is a heap-resident unsigned 128-bit integer.
type Unsigned struct {
	f    *Factory
	addr mem.Addr
}

// Addr returns the heap address of the value's 16-byte storage.
func (u *Unsigned) Addr() mem.Addr { return u.addr }

// Free releases the backing allocation. The value must not be used after.
func (u *Unsigned) Free() error {
	err := u.f.arena.Free(u.addr)
	u.addr = mem.NullAddr
	return err
}

// SetUint64 overwrites the value with v.
func (u *Unsigned) SetUint64(v uint64) error {
	return u.f.ops.WriteUint64(u.f.heap(), u.addr, v)
}

// Set copies b's value into u.
func (u *Unsigned) Set(b *Unsigned) error {
	return u.f.ops.Copy(u.f.heap(), u.addr, b.addr)
}

// Uint64 returns the low 64 bits of the value.
func (u *Unsigned) Uint64() (uint64, error) {
	return u.f.ops.ReadUint64(u.f.heap(), u.addr)
}

// IsZero reports whether the value is zero.
func (u *Unsigned) IsZero() (bool, error) {
	v, err := u.value()
	if err != nil {
		return false, err
	}
	return v.IsZero(), nil
}

func (u *Unsigned) value() (limb.Value, error) {
	return limb.Load(u.f.heap(), u.addr)
}

// Add returns a new value holding u + b. Fails with ErrOverflow when the
// sum does not fit in 128 bits; no allocation is leaked on failure.
func (u *Unsigned) Add(b *Unsigned) (*Unsigned, error) {
	out, err := u.f.Unsigned()
	if err != nil {
		return nil, err
	}
	carry, err := u.f.ops.Add(u.f.heap(), out.addr, u.addr, b.addr)
	if err != nil {
		out.Free()
		return nil, err
	}
	if carry != 0 {
		out.Free()
		return nil, ErrOverflow
	}
	return out, nil
}

// AddAssign sets u = u + b in place. The value is unchanged on overflow
// because the carry is known only after the limbs are written, so callers
// needing rollback should Add into a fresh value instead; AddAssign
// reports ErrOverflow with the wrapped sum stored.
func (u *Unsigned) AddAssign(b *Unsigned) error {
	carry, err := u.f.ops.Add(u.f.heap(), u.addr, u.addr, b.addr)
	if err != nil {
		return err
	}
	if carry != 0 {
		return ErrOverflow
	}
	return nil
}

// Sub returns a new value holding u - b, or ErrUnderflow when b > u.
func (u *Unsigned) Sub(b *Unsigned) (*Unsigned, error) {
	out, err := u.f.Unsigned()
	if err != nil {
		return nil, err
	}
	borrow, err := u.f.ops.Sub(u.f.heap(), out.addr, u.addr, b.addr)
	if err != nil {
		out.Free()
		return nil, err
	}
	if borrow != 0 {
		out.Free()
		return nil, ErrUnderflow
	}
	return out, nil
}

// SubAssign sets u = u - b in place, reporting ErrUnderflow with the
// wrapped difference stored when b > u.
func (u *Unsigned) SubAssign(b *Unsigned) error {
	borrow, err := u.f.ops.Sub(u.f.heap(), u.addr, u.addr, b.addr)
	if err != nil {
		return err
	}
	if borrow != 0 {
		return ErrUnderflow
	}
	return nil
}

// ShiftLeft returns a new value holding u << n. Any bit pushed past bit
// 127 is information loss and fails with ErrOverflow.
func (u *Unsigned) ShiftLeft(n uint) (*Unsigned, error) {
	out, err := u.f.Unsigned()
	if err != nil {
		return nil, err
	}
	spill, err := u.f.ops.ShiftLeft(u.f.heap(), out.addr, u.addr, n)
	if err != nil {
		out.Free()
		return nil, err
	}
	if spill != 0 {
		out.Free()
		return nil, ErrOverflow
	}
	return out, nil
}

// ShiftRight returns a new value holding u >> n. Bits shifted out are
// simply dropped; the operation cannot fail for any count.
func (u *Unsigned) ShiftRight(n uint) (*Unsigned, error) {
	out, err := u.f.Unsigned()
	if err != nil {
		return nil, err
	}
	if _, err := u.f.ops.ShiftRight(u.f.heap(), out.addr, u.addr, n); err != nil {
		out.Free()
		return nil, err
	}
	return out, nil
}

// Cmp compares u and b, returning -1, 0, or 1.
func (u *Unsigned) Cmp(b *Unsigned) (int, error) {
	return u.f.ops.Compare(u.f.heap(), u.addr, b.addr)
}

// Hex renders the value as minimal lowercase hex with a 0x prefix. The
// digit string is the full 128-bit image with leading zeros trimmed, so a
// carry out of bit 63 shows up as a 17th digit rather than wrapping.
func (u *Unsigned) Hex() (string, error) {
	s, err := u.f.ops.HexBE(u.f.heap(), u.addr)
	if err != nil {
		return "", err
	}
	return "0x" + hexutil.TrimZeros(s), nil
}
