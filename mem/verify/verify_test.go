package verify

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/alloc"
)

func newTestArena(t *testing.T) *alloc.Arena {
	t.Helper()
	h, err := mem.New(4096)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	a, err := alloc.NewArena(h, nil)
	require.NoError(t, err)
	return a
}

func TestAllInvariants_FreshArena(t *testing.T) {
	a := newTestArena(t)
	require.NoError(t, AllInvariants(a))
}

func TestAllInvariants_AfterMixedWorkload(t *testing.T) {
	a := newTestArena(t)
	rng := rand.New(rand.NewSource(7))

	var live []mem.Addr
	for i := 0; i < 300; i++ {
		switch {
		case len(live) > 0 && rng.Intn(10) < 4:
			j := rng.Intn(len(live))
			require.NoError(t, a.Free(live[j]))
			live = append(live[:j], live[j+1:]...)
		case len(live) > 0 && rng.Intn(10) < 2:
			j := rng.Intn(len(live))
			addr, err := a.Realloc(live[j], 1+rng.Intn(256))
			require.NoError(t, err)
			live[j] = addr
		default:
			addr, err := a.Malloc(1 + rng.Intn(256))
			require.NoError(t, err)
			live = append(live, addr)
		}
	}

	require.NoError(t, AllInvariants(a))

	for _, addr := range live {
		require.NoError(t, a.Free(addr))
	}
	require.NoError(t, AllInvariants(a))
}

func TestBaseGuard_DetectsStompedGuard(t *testing.T) {
	a := newTestArena(t)
	data := a.Heap().Bytes()

	format.PutTag(data, 0, format.BaseGuardSize, false)

	err := AllInvariants(a)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "BaseGuard", verr.Type)
	require.Zero(t, verr.Offset)
}

func TestChunkStructure_DetectsTagMismatch(t *testing.T) {
	a := newTestArena(t)
	addr, err := a.Malloc(24)
	require.NoError(t, err)

	// stomp the footer while leaving the header intact
	data := a.Heap().Bytes()
	off := int(addr) - format.TagSize
	size, _ := format.ReadTag(data, off)
	format.PutTag(data, format.FooterOffset(off, size), size, false)

	verifyErr := AllInvariants(a)
	require.Error(t, verifyErr)
	var verr *ValidationError
	require.ErrorAs(t, verifyErr, &verr)
	require.Equal(t, "ChunkStructure", verr.Type)
	require.Equal(t, off, verr.Offset)
}

func TestFreeLists_DetectsUnlistedFreeChunk(t *testing.T) {
	a := newTestArena(t)

	// three chunks so the doctored one sits between in-use neighbors
	_, err := a.Malloc(24)
	require.NoError(t, err)
	b, err := a.Malloc(24)
	require.NoError(t, err)
	_, err = a.Malloc(24)
	require.NoError(t, err)

	// flip b's tags to free without going through the allocator
	data := a.Heap().Bytes()
	off := int(b) - format.TagSize
	size, _ := format.ReadTag(data, off)
	format.PutTag(data, off, size, false)
	format.PutTag(data, format.FooterOffset(off, size), size, false)

	verifyErr := AllInvariants(a)
	require.Error(t, verifyErr)
	var verr *ValidationError
	require.ErrorAs(t, verifyErr, &verr)
	require.Equal(t, "FreeLists", verr.Type)
	require.Equal(t, off, verr.Offset)
}

func TestCoalescing_DetectsAdjacentFreeChunks(t *testing.T) {
	a := newTestArena(t)

	_, err := a.Malloc(24)
	require.NoError(t, err)
	b, err := a.Malloc(24)
	require.NoError(t, err)
	c, err := a.Malloc(24)
	require.NoError(t, err)
	_, err = a.Malloc(24)
	require.NoError(t, err)

	// flip b and c to free by hand, leaving two free neighbors unmerged
	data := a.Heap().Bytes()
	for _, addr := range []mem.Addr{b, c} {
		off := int(addr) - format.TagSize
		size, _ := format.ReadTag(data, off)
		format.PutTag(data, off, size, false)
		format.PutTag(data, format.FooterOffset(off, size), size, false)
	}

	err = Coalescing(a)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Coalescing", verr.Type)
	require.Equal(t, int(c)-format.TagSize, verr.Offset)
}

func TestFingerprint_DeterministicAcrossArenas(t *testing.T) {
	run := func(extra bool) uint64 {
		a := newTestArena(t)
		x, err := a.Malloc(40)
		require.NoError(t, err)
		require.NoError(t, a.Heap().StoreU64(x, 0xDEADBEEF))
		y, err := a.Malloc(100)
		require.NoError(t, err)
		require.NoError(t, a.Free(x))
		if extra {
			require.NoError(t, a.Heap().StoreU8(y, 1))
		}
		return Fingerprint(a)
	}

	require.Equal(t, run(false), run(false))
	require.NotEqual(t, run(false), run(true))
}

func TestValidationError_Formatting(t *testing.T) {
	withOff := &ValidationError{Type: "ChunkStructure", Message: "boom", Offset: 0x40}
	require.Equal(t, "ChunkStructure at offset 0x40: boom", withOff.Error())

	noOff := &ValidationError{Type: "FreeLists", Message: "boom", Offset: -1}
	require.Equal(t, "FreeLists: boom", noOff.Error())
}
