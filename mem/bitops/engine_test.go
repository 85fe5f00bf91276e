package bitops

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/hexutil"
)

func TestNewEngine_Widths(t *testing.T) {
	for _, w := range []uint{8, 16, 32, 64} {
		e, err := NewEngine(Native, w)
		require.NoError(t, err)
		require.Equal(t, w, e.Width())
	}
	for _, w := range []uint{0, 7, 12, 65, 128} {
		_, err := NewEngine(Native, w)
		require.ErrorIs(t, err, ErrInvalidWidth)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("native")
	require.NoError(t, err)
	require.Equal(t, Native, m)

	m, err = ParseMode("arithmetic")
	require.NoError(t, err)
	require.Equal(t, Arithmetic, m)

	m, err = ParseMode("arith")
	require.NoError(t, err)
	require.Equal(t, Arithmetic, m)

	_, err = ParseMode("fast")
	require.Error(t, err)
}

func TestShiftLeft_KnownVector(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		r, err := e.ShiftLeft(0x12345678, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0x34567800), r.Value, "mode %s", mode)
		require.Equal(t, uint64(0x12), r.Carry, "mode %s", mode)
		require.True(t, r.Overflow)
	}
}

func TestShiftLeft_NoCarryNoOverflow(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 16)
		require.NoError(t, err)

		r, err := e.ShiftLeft(0x00F0, 4)
		require.NoError(t, err)
		require.Equal(t, uint64(0x0F00), r.Value)
		require.Zero(t, r.Carry)
		require.False(t, r.Overflow)
	}
}

func TestShiftLeft_FullWidthMovesEverythingToCarry(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 8)
		require.NoError(t, err)

		r, err := e.ShiftLeft(0xA5, 8)
		require.NoError(t, err)
		require.Zero(t, r.Value)
		require.Equal(t, uint64(0xA5), r.Carry)
	}
}

func TestShiftRight_SignPropagates(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		r, err := e.ShiftRight(0x80000000, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(0xC0000000), r.Value, "mode %s", mode)
		require.Zero(t, r.Carry)

		r, err = e.ShiftRight(0x80000001, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(0xC0000000), r.Value)
		require.Equal(t, uint64(1), r.Carry)
		require.True(t, r.Overflow)
	}
}

func TestShiftRight_NonNegativeZeroFills(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 16)
		require.NoError(t, err)

		r, err := e.ShiftRight(0x7FFF, 4)
		require.NoError(t, err)
		require.Equal(t, uint64(0x07FF), r.Value)
		require.Equal(t, uint64(0xF), r.Carry)
	}
}

func TestShiftRight_FullWidthOfNegativeIsAllOnes(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 8)
		require.NoError(t, err)

		r, err := e.ShiftRight(0x80, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0xFF), r.Value)
		require.Equal(t, uint64(0x80), r.Carry)
	}
}

func TestUnsignedShiftRight_ZeroFills(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		r, err := e.UnsignedShiftRight(0x80000001, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(0x40000000), r.Value)
		require.Equal(t, uint64(1), r.Carry)
	}
}

func TestShift_RangeErrors(t *testing.T) {
	e, err := NewEngine(Native, 16)
	require.NoError(t, err)

	_, err = e.ShiftLeft(1, 17)
	require.ErrorIs(t, err, ErrShiftRange)
	_, err = e.ShiftRight(1, 17)
	require.ErrorIs(t, err, ErrShiftRange)
	_, err = e.UnsignedShiftRight(1, 17)
	require.ErrorIs(t, err, ErrShiftRange)
}

func TestShiftRoundTrip_LeftThenRightRestoresLowBits(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		v := uint64(0x00123456)
		l, err := e.ShiftLeft(v, 8)
		require.NoError(t, err)
		require.False(t, l.Overflow)

		r, err := e.UnsignedShiftRight(l.Value, 8)
		require.NoError(t, err)
		require.Equal(t, v, r.Value)
	}
}

func TestBitwise_KnownVectors(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 16)
		require.NoError(t, err)

		require.Equal(t, uint64(0x00F0), e.And(0x0FF0, 0xF0F0))
		require.Equal(t, uint64(0xFFF0), e.Or(0x0FF0, 0xF0F0))
		require.Equal(t, uint64(0xFF00), e.Xor(0x0FF0, 0xF0F0))
		require.Equal(t, uint64(0xF00F), e.Not(0x0FF0))
	}
}

func TestBitOps_SetClearToggleTest(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		v, err := e.BitSet(0, 31)
		require.NoError(t, err)
		require.Equal(t, uint64(0x80000000), v)

		// setting an already-set bit is a no-op
		v, err = e.BitSet(v, 31)
		require.NoError(t, err)
		require.Equal(t, uint64(0x80000000), v)

		set, err := e.BitTest(v, 31)
		require.NoError(t, err)
		require.True(t, set)

		v, err = e.BitClear(v, 31)
		require.NoError(t, err)
		require.Zero(t, v)

		v, err = e.BitToggle(0x5, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(0x7), v)
		v, err = e.BitToggle(v, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(0x5), v)

		_, err = e.BitTest(0, 32)
		require.ErrorIs(t, err, ErrBitRange)
	}
}

func TestPopCount(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 16)
		require.NoError(t, err)

		require.Equal(t, 0, e.PopCount(0))
		require.Equal(t, 16, e.PopCount(0xFFFF))
		require.Equal(t, 8, e.PopCount(0xAAAA))
		// bits above the width are ignored
		require.Equal(t, 1, e.PopCount(0xFFFF0001))
	}
}

func TestSignExtend(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		v, err := e.SignExtend(0x80, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0xFFFFFF80), v)

		v, err = e.SignExtend(0x7F, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0x7F), v)

		_, err = e.SignExtend(1, 33)
		require.ErrorIs(t, err, ErrWidthRange)
	}
}

func TestZeroExtend(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		v, err := e.ZeroExtend(0xFFFF_FF80, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0x80), v)
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	for _, mode := range []Mode{Native, Arithmetic} {
		e, err := NewEngine(mode, 32)
		require.NoError(t, err)

		bs := e.Bytes(0x12345678)
		require.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, bs)

		v, err := e.FromBytes(bs)
		require.NoError(t, err)
		require.Equal(t, uint64(0x12345678), v)

		_, err = e.FromBytes([]byte{1, 2})
		require.ErrorIs(t, err, ErrBadLength)
	}
}

// TestCrossMode_Agreement drives both backends with the same random inputs
// across every width and checks bit-exact agreement. This is the contract
// that makes the arithmetic backend usable as a drop-in.
func TestCrossMode_Agreement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, w := range []uint{8, 16, 32, 64} {
		nat, err := NewEngine(Native, w)
		require.NoError(t, err)
		art, err := NewEngine(Arithmetic, w)
		require.NoError(t, err)

		for i := 0; i < 500; i++ {
			v := rng.Uint64()
			b := rng.Uint64()
			n := uint(rng.Intn(int(w) + 1))

			nl, err1 := nat.ShiftLeft(v, n)
			al, err2 := art.ShiftLeft(v, n)
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, nl, al, "shl width=%d v=%#x n=%d", w, v, n)

			nr, err1 := nat.ShiftRight(v, n)
			ar, err2 := art.ShiftRight(v, n)
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, nr, ar, "sar width=%d v=%#x n=%d", w, v, n)

			nu, err1 := nat.UnsignedShiftRight(v, n)
			au, err2 := art.UnsignedShiftRight(v, n)
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, nu, au, "shr width=%d v=%#x n=%d", w, v, n)

			require.Equal(t, nat.And(v, b), art.And(v, b))
			require.Equal(t, nat.Or(v, b), art.Or(v, b))
			require.Equal(t, nat.Xor(v, b), art.Xor(v, b))
			require.Equal(t, nat.Not(v), art.Not(v))
			require.Equal(t, nat.PopCount(v), art.PopCount(v))

			bit := uint(rng.Intn(int(w)))
			nb, err1 := nat.BitTest(v, bit)
			ab, err2 := art.BitTest(v, bit)
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, nb, ab)

			from := uint(1 + rng.Intn(int(w)))
			ns, err1 := nat.SignExtend(v, from)
			as, err2 := art.SignExtend(v, from)
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, ns, as, "sext width=%d v=%#x from=%d", w, v, from)
		}
	}
}

// Nibble-multiple shifts have a second, independent model: shifting the
// fixed-width hex rendering of the value by whole digits. Both engines must
// agree with it.
func TestShift_MatchesHexDigitShift(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, mode := range []Mode{Native, Arithmetic} {
		for _, w := range []uint{8, 16, 32, 64} {
			e, err := NewEngine(mode, w)
			require.NoError(t, err)
			digits := int(w) / 4

			for i := 0; i < 200; i++ {
				v := rng.Uint64() & PureMask(w)
				n := uint(4 * rng.Intn(digits+1))
				s := fmt.Sprintf("%0*x", digits, v)

				l, err := e.ShiftLeft(v, n)
				require.NoError(t, err)
				want, err := hexutil.ShiftLeft(s, int(n)/4)
				require.NoError(t, err)
				require.Equal(t, want, fmt.Sprintf("%0*x", digits, l.Value),
					"shl mode=%s width=%d v=%s n=%d", mode, w, s, n)

				r, err := e.UnsignedShiftRight(v, n)
				require.NoError(t, err)
				want, err = hexutil.ShiftRight(s, int(n)/4)
				require.NoError(t, err)
				require.Equal(t, want, fmt.Sprintf("%0*x", digits, r.Value),
					"shr mode=%s width=%d v=%s n=%d", mode, w, s, n)
			}
		}
	}
}
