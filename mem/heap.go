package mem

import (
	"fmt"
	"math"
	"os"

	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
)

// Addr is a logical heap address: a byte offset into the heap's backing
// buffer. Address 0 is reserved as the null sentinel by the allocator and is
// never returned for an allocation.
type Addr uint32

// NullAddr is the null address sentinel.
const NullAddr Addr = 0

// Heap is the emulated process memory, backed by an anonymous buffer or a
// read-write file mapping.
type Heap struct {
	f      *os.File // nil for in-memory heaps
	data   []byte
	mapped bool // true when data is an active mmap
}

// New creates an in-memory heap with at least initial bytes of capacity,
// rounded up to whole pages. initial may be zero.
func New(initial int) (*Heap, error) {
	if initial < 0 {
		return nil, fmt.Errorf("mem: new: %w (%d)", ErrBadSize, initial)
	}
	size := format.AlignPage(initial)
	if size == 0 {
		size = format.PageSize
	}
	if size > format.MaxHeapSize {
		return nil, fmt.Errorf("mem: new: %w (%d)", ErrHeapLimit, initial)
	}
	return &Heap{data: make([]byte, size)}, nil
}

// Bytes returns the backing buffer. The slice is invalidated by the next
// growth; callers that hold it across EnsureCapacity must re-fetch.
func (h *Heap) Bytes() []byte { return h.data }

// Size returns the current heap size in bytes.
func (h *Heap) Size() int { return len(h.data) }

// EnsureCapacity grows the heap so that at least min bytes are addressable,
// preserving existing content and previously issued addresses. Growth is
// rounded up to whole pages. It fails with ErrHeapLimit when min exceeds the
// maximum heap size and with ErrClosed on a closed heap.
func (h *Heap) EnsureCapacity(min int) error {
	if h.data == nil {
		return ErrClosed
	}
	if min < 0 {
		return fmt.Errorf("mem: ensure capacity: %w (%d)", ErrBadSize, min)
	}
	if min <= len(h.data) {
		return nil
	}
	if min > format.MaxHeapSize {
		return fmt.Errorf("mem: ensure capacity: %w (need %d)", ErrHeapLimit, min)
	}
	newSize := format.AlignPage(min)
	if newSize > format.MaxHeapSize {
		newSize = format.MaxHeapSize
	}
	if h.f != nil {
		return h.growFile(newSize)
	}
	// Anonymous heap: allocate a larger buffer and copy. Addresses are
	// offsets, so the copy is invisible to callers.
	newData := make([]byte, newSize)
	copy(newData, h.data)
	h.data = newData
	return nil
}

// Region returns the byte slice [addr, addr+n) after bounds-checking it
// against the current heap size. The slice aliases the backing buffer.
func (h *Heap) Region(addr Addr, n int) ([]byte, error) {
	s, ok := buf.Slice(h.data, int(addr), n)
	if !ok {
		return nil, fmt.Errorf("mem: region [%d,+%d): %w", addr, n, ErrOOB)
	}
	return s, nil
}

// Close tears the heap down. For file-backed heaps the mapping is released
// and the file closed. Any Addr issued against the heap is invalid afterward.
func (h *Heap) Close() error {
	if h.f != nil {
		return h.closeFile()
	}
	h.data = nil
	return nil
}

// ---------------------------------------------------------------------------
// Typed little-endian accessors
// ---------------------------------------------------------------------------

// LoadU8 reads the byte at addr.
func (h *Heap) LoadU8(addr Addr) (uint8, error) {
	if !buf.Has(h.data, int(addr), 1) {
		return 0, fmt.Errorf("mem: load u8 @%d: %w", addr, ErrOOB)
	}
	return h.data[addr], nil
}

// StoreU8 writes the byte at addr.
func (h *Heap) StoreU8(addr Addr, v uint8) error {
	if !buf.Has(h.data, int(addr), 1) {
		return fmt.Errorf("mem: store u8 @%d: %w", addr, ErrOOB)
	}
	h.data[addr] = v
	return nil
}

// LoadU16 reads a little-endian uint16 at addr.
func (h *Heap) LoadU16(addr Addr) (uint16, error) {
	if !buf.Has(h.data, int(addr), 2) {
		return 0, fmt.Errorf("mem: load u16 @%d: %w", addr, ErrOOB)
	}
	return format.ReadU16(h.data, int(addr)), nil
}

// StoreU16 writes a little-endian uint16 at addr.
func (h *Heap) StoreU16(addr Addr, v uint16) error {
	if !buf.Has(h.data, int(addr), 2) {
		return fmt.Errorf("mem: store u16 @%d: %w", addr, ErrOOB)
	}
	format.PutU16(h.data, int(addr), v)
	return nil
}

// LoadU32 reads a little-endian uint32 at addr.
func (h *Heap) LoadU32(addr Addr) (uint32, error) {
	if !buf.Has(h.data, int(addr), 4) {
		return 0, fmt.Errorf("mem: load u32 @%d: %w", addr, ErrOOB)
	}
	return format.ReadU32(h.data, int(addr)), nil
}

// StoreU32 writes a little-endian uint32 at addr.
func (h *Heap) StoreU32(addr Addr, v uint32) error {
	if !buf.Has(h.data, int(addr), 4) {
		return fmt.Errorf("mem: store u32 @%d: %w", addr, ErrOOB)
	}
	format.PutU32(h.data, int(addr), v)
	return nil
}

// LoadU64 reads a little-endian uint64 at addr.
func (h *Heap) LoadU64(addr Addr) (uint64, error) {
	if !buf.Has(h.data, int(addr), 8) {
		return 0, fmt.Errorf("mem: load u64 @%d: %w", addr, ErrOOB)
	}
	return format.ReadU64(h.data, int(addr)), nil
}

// StoreU64 writes a little-endian uint64 at addr.
func (h *Heap) StoreU64(addr Addr, v uint64) error {
	if !buf.Has(h.data, int(addr), 8) {
		return fmt.Errorf("mem: store u64 @%d: %w", addr, ErrOOB)
	}
	format.PutU64(h.data, int(addr), v)
	return nil
}

// LoadI8 reads the byte at addr as a signed value.
func (h *Heap) LoadI8(addr Addr) (int8, error) {
	v, err := h.LoadU8(addr)
	return int8(v), err
}

// StoreI8 writes the byte at addr.
func (h *Heap) StoreI8(addr Addr, v int8) error {
	return h.StoreU8(addr, uint8(v))
}

// LoadI16 reads a little-endian int16 at addr.
func (h *Heap) LoadI16(addr Addr) (int16, error) {
	v, err := h.LoadU16(addr)
	return int16(v), err
}

// StoreI16 writes a little-endian int16 at addr.
func (h *Heap) StoreI16(addr Addr, v int16) error {
	return h.StoreU16(addr, uint16(v))
}

// LoadI32 reads a little-endian int32 at addr.
func (h *Heap) LoadI32(addr Addr) (int32, error) {
	v, err := h.LoadU32(addr)
	return int32(v), err
}

// StoreI32 writes a little-endian int32 at addr.
func (h *Heap) StoreI32(addr Addr, v int32) error {
	return h.StoreU32(addr, uint32(v))
}

// LoadI64 reads a little-endian int64 at addr.
func (h *Heap) LoadI64(addr Addr) (int64, error) {
	v, err := h.LoadU64(addr)
	return int64(v), err
}

// StoreI64 writes a little-endian int64 at addr.
func (h *Heap) StoreI64(addr Addr, v int64) error {
	return h.StoreU64(addr, uint64(v))
}

// LoadF32 reads an IEEE-754 single at addr. The value travels through the
// little-endian uint32 path as a raw bit pattern.
func (h *Heap) LoadF32(addr Addr) (float32, error) {
	bits, err := h.LoadU32(addr)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// StoreF32 writes an IEEE-754 single at addr as its raw bit pattern.
func (h *Heap) StoreF32(addr Addr, v float32) error {
	return h.StoreU32(addr, math.Float32bits(v))
}

// LoadF64 reads an IEEE-754 double at addr.
func (h *Heap) LoadF64(addr Addr) (float64, error) {
	bits, err := h.LoadU64(addr)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// StoreF64 writes an IEEE-754 double at addr as its raw bit pattern.
func (h *Heap) StoreF64(addr Addr, v float64) error {
	return h.StoreU64(addr, math.Float64bits(v))
}
