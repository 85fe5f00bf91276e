package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	v, ok := AddOverflowSafe(1, 2)
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok)

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok)
}

func TestMulOverflowSafe(t *testing.T) {
	v, ok := MulOverflowSafe(6, 7)
	require.True(t, ok)
	require.Equal(t, 42, v)

	v, ok = MulOverflowSafe(0, math.MaxInt)
	require.True(t, ok)
	require.Equal(t, 0, v)

	_, ok = MulOverflowSafe(math.MaxInt, 2)
	require.False(t, ok)

	_, ok = MulOverflowSafe(math.MaxInt/2+1, 2)
	require.False(t, ok)
}

func TestSlice(t *testing.T) {
	b := make([]byte, 10)

	s, ok := Slice(b, 2, 4)
	require.True(t, ok)
	require.Len(t, s, 4)

	_, ok = Slice(b, 8, 4)
	require.False(t, ok)

	_, ok = Slice(b, -1, 1)
	require.False(t, ok)

	_, ok = Slice(b, 2, math.MaxInt)
	require.False(t, ok)

	require.True(t, Has(b, 0, 10))
	require.False(t, Has(b, 0, 11))
}

func TestU32LE(t *testing.T) {
	require.Equal(t, uint32(0x12345678), U32LE([]byte{0x78, 0x56, 0x34, 0x12}))
	require.Equal(t, uint32(0x12345678), U32LE([]byte{0x78, 0x56, 0x34, 0x12, 0xFF}))

	// short buffers read as zero instead of panicking
	require.Zero(t, U32LE([]byte{0x78, 0x56, 0x34}))
	require.Zero(t, U32LE(nil))
}
