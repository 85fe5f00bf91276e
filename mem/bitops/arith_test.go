package bitops

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// The pure primitives are checked against host operators here; the engine
// tests then check that both backends agree through the public surface.

func TestPureMask(t *testing.T) {
	require.Equal(t, uint64(0xFF), PureMask(8))
	require.Equal(t, uint64(0xFFFF), PureMask(16))
	require.Equal(t, uint64(0xFFFFFFFF), PureMask(32))
	require.Equal(t, ^uint64(0), PureMask(64))
	require.Equal(t, uint64(1), PureMask(1))
}

func TestPureShiftLeft_MatchesHostShift(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, w := range []uint{8, 16, 32, 64} {
		mask := PureMask(w)
		for i := 0; i < 200; i++ {
			v := rng.Uint64() & mask
			n := uint(rng.Intn(int(w)))

			value, carry := PureShiftLeft(v, n, w)
			require.Equal(t, (v<<n)&mask, value, "w=%d v=%#x n=%d", w, v, n)
			if n == 0 {
				require.Zero(t, carry)
			} else {
				require.Equal(t, v>>(w-n), carry, "w=%d v=%#x n=%d", w, v, n)
			}
		}
	}
}

func TestPureShiftRightLogical_MatchesHostShift(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, w := range []uint{8, 16, 32, 64} {
		mask := PureMask(w)
		for i := 0; i < 200; i++ {
			v := rng.Uint64() & mask
			n := uint(rng.Intn(int(w)))

			value, carry := PureShiftRightLogical(v, n, w)
			require.Equal(t, v>>n, value)
			require.Equal(t, v&((uint64(1)<<n)-1), carry)
		}
	}
}

func TestPureShiftRightArith_SignFill(t *testing.T) {
	value, carry := PureShiftRightArith(0x80, 4, 8)
	require.Equal(t, uint64(0xF8), value)
	require.Zero(t, carry)

	value, carry = PureShiftRightArith(0x7F, 4, 8)
	require.Equal(t, uint64(0x07), value)
	require.Equal(t, uint64(0xF), carry)
}

func TestPureBitwise_MatchesHostOperators(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, w := range []uint{8, 16, 32, 64} {
		mask := PureMask(w)
		for i := 0; i < 200; i++ {
			a := rng.Uint64() & mask
			b := rng.Uint64() & mask

			require.Equal(t, a&b, PureAnd(a, b, w))
			require.Equal(t, a|b, PureOr(a, b, w))
			require.Equal(t, a^b, PureXor(a, b, w))
			require.Equal(t, (^a)&mask, PureNot(a, w))
		}
	}
}

func TestPureSignExtend(t *testing.T) {
	require.Equal(t, uint64(0xFFFFFFFFFFFFFF80), PureSignExtend(0x80, 8, 64))
	require.Equal(t, uint64(0x7F), PureSignExtend(0x7F, 8, 64))
	require.Equal(t, uint64(0xFF80), PureSignExtend(0x80, 8, 16))
	// from == width leaves the value alone
	require.Equal(t, uint64(0x80), PureSignExtend(0x80, 8, 8))
}

func TestPureBit(t *testing.T) {
	require.Equal(t, uint64(1), PureBit(0x80, 7))
	require.Equal(t, uint64(0), PureBit(0x80, 6))
	require.Equal(t, uint64(1), PureBit(^uint64(0), 63))
}

func TestPurePopCount(t *testing.T) {
	require.Equal(t, 0, PurePopCount(0, 64))
	require.Equal(t, 64, PurePopCount(^uint64(0), 64))
	require.Equal(t, 1, PurePopCount(0x8000000000000000, 64))
	require.Equal(t, 0, PurePopCount(0xFF00, 8))
}

func TestPureBytes_RoundTrip(t *testing.T) {
	bs := PureBytes(0xDEADBEEF, 32)
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, bs)
	require.Equal(t, uint64(0xDEADBEEF), PureFromBytes(bs))
}
