package int128

import (
	"github.com/joshuapare/memkit/internal/hexutil"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/limb"
)

// Signed is a heap-resident two's complement 128-bit integer. It shares
// storage layout with Unsigned; only the interpretation of the top bit and
// the overflow rules differ.
type Signed struct {
	f    *Factory
	addr mem.Addr
}

// Addr returns the heap address of the value's 16-byte storage.
func (s *Signed) Addr() mem.Addr { return s.addr }

// Free releases the backing allocation. The value must not be used after.
func (s *Signed) Free() error {
	err := s.f.arena.Free(s.addr)
	s.addr = mem.NullAddr
	return err
}

func (s *Signed) value() (limb.Value, error) {
	return limb.Load(s.f.heap(), s.addr)
}

func (s *Signed) store(v limb.Value) error {
	return v.Store(s.f.heap(), s.addr)
}

// SetInt64 overwrites the value with v, sign-extended to 128 bits.
func (s *Signed) SetInt64(v int64) error {
	val := limb.ValueFromUint64(uint64(v))
	if v < 0 {
		for i := limb.Limbs / 2; i < limb.Limbs; i++ {
			val[i] = 0xffff
		}
	}
	return s.store(val)
}

// Set copies b's value into s.
func (s *Signed) Set(b *Signed) error {
	return s.f.ops.Copy(s.f.heap(), s.addr, b.addr)
}

// Int64 returns the value as an int64. Fails with ErrOverflow when the
// value does not fit, i.e. when the upper 64 bits are not a pure sign
// extension of bit 63.
func (s *Signed) Int64() (int64, error) {
	v, err := s.value()
	if err != nil {
		return 0, err
	}
	low := v.Uint64()
	want := uint16(0)
	if int64(low) < 0 {
		want = 0xffff
	}
	for i := limb.Limbs / 2; i < limb.Limbs; i++ {
		if v[i] != want {
			return 0, ErrOverflow
		}
	}
	return int64(low), nil
}

// IsNegative reports whether the sign bit is set.
func (s *Signed) IsNegative() (bool, error) {
	v, err := s.value()
	if err != nil {
		return false, err
	}
	return s.f.signBit(v), nil
}

// IsZero reports whether the value is zero.
func (s *Signed) IsZero() (bool, error) {
	v, err := s.value()
	if err != nil {
		return false, err
	}
	return v.IsZero(), nil
}

// Add returns a new value holding s + b. Signed overflow happens exactly
// when both operands share a sign and the result does not.
func (s *Signed) Add(b *Signed) (*Signed, error) {
	va, err := s.value()
	if err != nil {
		return nil, err
	}
	vb, err := b.value()
	if err != nil {
		return nil, err
	}
	sum, _ := s.f.ops.AddValues(va, vb)
	sa, sb, sr := s.f.signBit(va), s.f.signBit(vb), s.f.signBit(sum)
	if sa == sb && sr != sa {
		return nil, ErrOverflow
	}
	return s.f.newSigned(sum)
}

// Sub returns a new value holding s - b. Overflow happens when the
// operands differ in sign and the result does not match the minuend.
func (s *Signed) Sub(b *Signed) (*Signed, error) {
	va, err := s.value()
	if err != nil {
		return nil, err
	}
	vb, err := b.value()
	if err != nil {
		return nil, err
	}
	diff, _ := s.f.ops.SubValues(va, vb)
	sa, sb, sr := s.f.signBit(va), s.f.signBit(vb), s.f.signBit(diff)
	if sa != sb && sr != sa {
		return nil, ErrOverflow
	}
	return s.f.newSigned(diff)
}

// Negate returns a new value holding -s. The minimum value has no positive
// counterpart and fails with ErrOverflow.
func (s *Signed) Negate() (*Signed, error) {
	v, err := s.value()
	if err != nil {
		return nil, err
	}
	neg := s.f.negate(v)
	if !v.IsZero() && neg == v {
		return nil, ErrOverflow
	}
	return s.f.newSigned(neg)
}

// ShiftLeft returns a new value holding s << n. The shift fails with
// ErrOverflow when it loses information: restoring the result with an
// arithmetic right shift by the same count must reproduce the operand.
func (s *Signed) ShiftLeft(n uint) (*Signed, error) {
	v, err := s.value()
	if err != nil {
		return nil, err
	}
	shifted, _ := s.f.ops.ShiftLeftValues(v, n)
	if s.f.sar(shifted, n) != v {
		return nil, ErrOverflow
	}
	return s.f.newSigned(shifted)
}

// ShiftRight returns a new value holding s >> n with sign fill. Shifting a
// negative value far enough converges on -1, a non-negative one on 0; the
// operation cannot fail for any count.
func (s *Signed) ShiftRight(n uint) (*Signed, error) {
	v, err := s.value()
	if err != nil {
		return nil, err
	}
	return s.f.newSigned(s.f.sar(v, n))
}

// Cmp compares s and b as signed integers, returning -1, 0, or 1.
func (s *Signed) Cmp(b *Signed) (int, error) {
	va, err := s.value()
	if err != nil {
		return 0, err
	}
	vb, err := b.value()
	if err != nil {
		return 0, err
	}
	sa, sb := s.f.signBit(va), s.f.signBit(vb)
	switch {
	case sa && !sb:
		return -1, nil
	case !sa && sb:
		return 1, nil
	}
	// Same sign: two's complement order matches unsigned order.
	return s.f.ops.CompareValues(va, vb), nil
}

// Hex renders the value in sign-magnitude form: minimal lowercase hex
// digits of the absolute value, 0x-prefixed, with a leading minus for
// negative values.
func (s *Signed) Hex() (string, error) {
	v, err := s.value()
	if err != nil {
		return "", err
	}
	prefix := ""
	if s.f.signBit(v) {
		prefix = "-"
		v = s.f.negate(v)
	}
	return prefix + "0x" + hexutil.TrimZeros(hexOfValue(v)), nil
}

func hexOfValue(v limb.Value) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, limb.Limbs*4)
	for i := limb.Limbs - 1; i >= 0; i-- {
		l := v[i]
		out = append(out,
			digits[l/4096],
			digits[l/256%16],
			digits[l/16%16],
			digits[l%16])
	}
	return string(out)
}
