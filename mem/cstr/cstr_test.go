package cstr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem"
)

func newTestHeap(t *testing.T) *mem.Heap {
	t.Helper()
	h, err := mem.New(4096)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestStrlen_CountsBytesBeforeTerminator(t *testing.T) {
	h := newTestHeap(t)

	n, err := WriteString(h, 100, "hello")
	require.NoError(t, err)
	require.Equal(t, 6, n)

	length, err := Strlen(h, 100)
	require.NoError(t, err)
	require.Equal(t, 5, length)

	// empty string
	_, err = WriteString(h, 200, "")
	require.NoError(t, err)
	length, err = Strlen(h, 200)
	require.NoError(t, err)
	require.Zero(t, length)
}

func TestStrlen_UnterminatedStringIsOOB(t *testing.T) {
	h := newTestHeap(t)

	// fill the tail of the heap with non-NUL bytes
	end := h.Size()
	require.NoError(t, h.Memset(mem.Addr(end-8), 'x', 8))

	_, err := Strlen(h, mem.Addr(end-8))
	require.ErrorIs(t, err, mem.ErrOOB)

	_, err = Strlen(h, mem.Addr(end))
	require.ErrorIs(t, err, mem.ErrOOB)
}

func TestStrcpy_CopiesTerminatorToo(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "copy me")
	require.NoError(t, err)
	// poison the destination so the terminator copy is observable
	require.NoError(t, h.Memset(200, 0xAA, 16))

	n, err := Strcpy(h, 200, 100)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	got, err := GoString(h, 200)
	require.NoError(t, err)
	require.Equal(t, "copy me", got)
}

func TestStrncpy_PadsShortSource(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "ab")
	require.NoError(t, err)
	require.NoError(t, h.Memset(200, 0xAA, 8))

	require.NoError(t, Strncpy(h, 200, 100, 6))

	region, err := h.Region(200, 8)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 0xAA, 0xAA}, region)
}

func TestStrncpy_LongSourceLeavesNoTerminator(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "abcdef")
	require.NoError(t, err)
	require.NoError(t, h.Memset(200, 0xAA, 8))

	require.NoError(t, Strncpy(h, 200, 100, 4))

	region, err := h.Region(200, 6)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 'c', 'd', 0xAA, 0xAA}, region)
}

func TestStrcmp_Ordering(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "apple")
	require.NoError(t, err)
	_, err = WriteString(h, 200, "apricot")
	require.NoError(t, err)
	_, err = WriteString(h, 300, "apple")
	require.NoError(t, err)

	c, err := Strcmp(h, 100, 200)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Strcmp(h, 200, 100)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = Strcmp(h, 100, 300)
	require.NoError(t, err)
	require.Zero(t, c)
}

func TestStrcmp_BytesCompareUnsigned(t *testing.T) {
	h := newTestHeap(t)

	// 0x80 must sort above any ASCII byte
	require.NoError(t, h.StoreU8(100, 0x80))
	require.NoError(t, h.StoreU8(101, 0))
	_, err := WriteString(h, 200, "z")
	require.NoError(t, err)

	c, err := Strcmp(h, 100, 200)
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestStrncmp_StopsAtLimit(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "abcdef")
	require.NoError(t, err)
	_, err = WriteString(h, 200, "abcxyz")
	require.NoError(t, err)

	c, err := Strncmp(h, 100, 200, 3)
	require.NoError(t, err)
	require.Zero(t, c)

	c, err = Strncmp(h, 100, 200, 4)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	// n == 0 compares nothing
	c, err = Strncmp(h, 100, 200, 0)
	require.NoError(t, err)
	require.Zero(t, c)
}

func TestMemchr_FindsFirstOccurrence(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "abcabc")
	require.NoError(t, err)

	addr, err := Memchr(h, 100, 'b', 6)
	require.NoError(t, err)
	require.Equal(t, mem.Addr(101), addr)

	addr, err = Memchr(h, 100, 'q', 6)
	require.NoError(t, err)
	require.Equal(t, mem.NullAddr, addr)

	// search window excludes the match
	addr, err = Memchr(h, 100, 'c', 2)
	require.NoError(t, err)
	require.Equal(t, mem.NullAddr, addr)
}

func TestGoString_RoundTrip(t *testing.T) {
	h := newTestHeap(t)

	_, err := WriteString(h, 100, "round trip")
	require.NoError(t, err)

	got, err := GoString(h, 100)
	require.NoError(t, err)
	require.Equal(t, "round trip", got)
}

func TestWriteString_RejectsWritesPastHeapEnd(t *testing.T) {
	h := newTestHeap(t)

	end := mem.Addr(h.Size())
	_, err := WriteString(h, end-3, "abc") // needs 4 bytes, has 3
	require.ErrorIs(t, err, mem.ErrOOB)

	n, err := WriteString(h, end-4, "abc")
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestDecodeWindows1252_MapsHighBytes(t *testing.T) {
	h := newTestHeap(t)

	// 0x93/0x94 are curly quotes in Windows-1252, 0xE9 is e-acute
	require.NoError(t, h.StoreU8(100, 0x93))
	require.NoError(t, h.StoreU8(101, 0xE9))
	require.NoError(t, h.StoreU8(102, 0x94))
	require.NoError(t, h.StoreU8(103, 0))

	got, err := DecodeWindows1252(h, 100)
	require.NoError(t, err)
	require.Equal(t, "“é”", got)

	// plain ASCII passes through unchanged
	_, err = WriteString(h, 200, "plain")
	require.NoError(t, err)
	got, err = DecodeWindows1252(h, 200)
	require.NoError(t, err)
	require.Equal(t, "plain", got)
}
