package cabi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustScalar(t *testing.T, m Model, name string, k Kind) Field {
	t.Helper()
	f, err := Scalar(m, name, k)
	require.NoError(t, err)
	return f
}

func TestSizeOf_ModelDependentWidths(t *testing.T) {
	fixed := map[Kind]int{
		Char:     1,
		Short:    2,
		Int:      4,
		Float:    4,
		LongLong: 8,
		Double:   8,
	}
	for k, want := range fixed {
		for _, m := range []Model{LP64, ILP32} {
			got, err := SizeOf(m, k)
			require.NoError(t, err)
			require.Equal(t, want, got, "%s under %s", k, m)
		}
	}

	for _, k := range []Kind{Long, Pointer} {
		got, err := SizeOf(LP64, k)
		require.NoError(t, err)
		require.Equal(t, 8, got)

		got, err = SizeOf(ILP32, k)
		require.NoError(t, err)
		require.Equal(t, 4, got)
	}

	_, err := SizeOf(LP64, Kind(99))
	require.ErrorIs(t, err, ErrBadKind)
}

func TestAlignOf_IsNaturalAlignment(t *testing.T) {
	for _, k := range []Kind{Char, Short, Int, Long, LongLong, Float, Double, Pointer} {
		size, err := SizeOf(LP64, k)
		require.NoError(t, err)
		align, err := AlignOf(LP64, k)
		require.NoError(t, err)
		require.Equal(t, size, align)
	}
}

func TestStruct_PadsBetweenAndAfterMembers(t *testing.T) {
	// struct { char c; int i; void *p; } under LP64
	l, err := Struct([]Field{
		mustScalar(t, LP64, "c", Char),
		mustScalar(t, LP64, "i", Int),
		mustScalar(t, LP64, "p", Pointer),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 8}, l.Offsets)
	require.Equal(t, 16, l.Size)
	require.Equal(t, 8, l.Align)

	// same struct under ILP32: pointer is 4 bytes
	l, err = Struct([]Field{
		mustScalar(t, ILP32, "c", Char),
		mustScalar(t, ILP32, "i", Int),
		mustScalar(t, ILP32, "p", Pointer),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 8}, l.Offsets)
	require.Equal(t, 12, l.Size)
	require.Equal(t, 4, l.Align)
}

func TestStruct_TailPadding(t *testing.T) {
	// struct { double d; char c; } needs 7 bytes of tail padding
	l, err := Struct([]Field{
		mustScalar(t, LP64, "d", Double),
		mustScalar(t, LP64, "c", Char),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 8}, l.Offsets)
	require.Equal(t, 16, l.Size)
}

func TestStruct_PackedCharsNeedNoPadding(t *testing.T) {
	l, err := Struct([]Field{
		mustScalar(t, LP64, "a", Char),
		mustScalar(t, LP64, "b", Char),
		mustScalar(t, LP64, "c", Char),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, l.Offsets)
	require.Equal(t, 3, l.Size)
	require.Equal(t, 1, l.Align)
}

func TestStruct_NestedAggregateAsField(t *testing.T) {
	inner, err := Struct([]Field{
		mustScalar(t, LP64, "x", Int),
		mustScalar(t, LP64, "y", Int),
	})
	require.NoError(t, err)

	outer, err := Struct([]Field{
		mustScalar(t, LP64, "c", Char),
		{Name: "pt", Size: inner.Size, Align: inner.Align},
		mustScalar(t, LP64, "d", Double),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 16}, outer.Offsets)
	require.Equal(t, 24, outer.Size)
}

func TestStruct_Errors(t *testing.T) {
	_, err := Struct(nil)
	require.ErrorIs(t, err, ErrEmptyAggregate)

	_, err = Struct([]Field{{Name: "bad", Size: 4, Align: 0}})
	require.Error(t, err)

	_, err = Struct([]Field{
		{Name: "huge", Size: math.MaxInt - 2, Align: 8},
		{Name: "more", Size: 8, Align: 8},
	})
	require.ErrorIs(t, err, ErrLayoutOverflow)
}

func TestUnion_OverlapsAllMembers(t *testing.T) {
	// union { char c; int i; double d; }
	l, err := Union([]Field{
		mustScalar(t, LP64, "c", Char),
		mustScalar(t, LP64, "i", Int),
		mustScalar(t, LP64, "d", Double),
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0}, l.Offsets)
	require.Equal(t, 8, l.Size)
	require.Equal(t, 8, l.Align)
}

func TestUnion_SizePaddedToAlignment(t *testing.T) {
	// union { char big[9]; double d; }: 9 bytes padded to 16
	arr, err := Array(mustScalar(t, LP64, "", Char), 9)
	require.NoError(t, err)

	l, err := Union([]Field{
		{Name: "big", Size: arr.Size, Align: arr.Align},
		mustScalar(t, LP64, "d", Double),
	})
	require.NoError(t, err)
	require.Equal(t, 16, l.Size)

	_, err = Union(nil)
	require.ErrorIs(t, err, ErrEmptyAggregate)
}

func TestArray_StrideAndSize(t *testing.T) {
	l, err := Array(mustScalar(t, LP64, "", Int), 10)
	require.NoError(t, err)
	require.Equal(t, 40, l.Size)
	require.Equal(t, 4, l.Align)

	// element with size not a multiple of its alignment gets a padded stride
	l, err = Array(Field{Name: "odd", Size: 5, Align: 4}, 3)
	require.NoError(t, err)
	require.Equal(t, 24, l.Size)

	l, err = Array(mustScalar(t, LP64, "", Char), 0)
	require.NoError(t, err)
	require.Zero(t, l.Size)

	_, err = Array(mustScalar(t, LP64, "", Char), -1)
	require.Error(t, err)

	_, err = Array(Field{Name: "big", Size: math.MaxInt / 2, Align: 1}, 3)
	require.ErrorIs(t, err, ErrLayoutOverflow)
}
