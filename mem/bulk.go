package mem

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/trace"
)

// Memcpy copies n bytes from src to dst. The ranges must not overlap; when
// they do, the result is undefined. With MEMKIT_DEBUG set, overlap is
// detected and reported as ErrOverlap instead.
func (h *Heap) Memcpy(dst, src Addr, n int) error {
	d, err := h.Region(dst, n)
	if err != nil {
		return fmt.Errorf("mem: memcpy dst: %w", err)
	}
	s, err := h.Region(src, n)
	if err != nil {
		return fmt.Errorf("mem: memcpy src: %w", err)
	}
	if trace.DebugChecks && n > 0 && rangesOverlap(int(dst), int(src), n) {
		return fmt.Errorf("mem: memcpy [%d,+%d) / [%d,+%d): %w", dst, n, src, n, ErrOverlap)
	}
	copy(d, s)
	return nil
}

// Memmove copies n bytes from src to dst and is correct for overlapping
// ranges, as if through an intermediate buffer.
func (h *Heap) Memmove(dst, src Addr, n int) error {
	d, err := h.Region(dst, n)
	if err != nil {
		return fmt.Errorf("mem: memmove dst: %w", err)
	}
	s, err := h.Region(src, n)
	if err != nil {
		return fmt.Errorf("mem: memmove src: %w", err)
	}
	// Go's copy has memmove semantics for aliased slices.
	copy(d, s)
	return nil
}

// Memset fills [addr, addr+n) with b.
func (h *Heap) Memset(addr Addr, b byte, n int) error {
	d, err := h.Region(addr, n)
	if err != nil {
		return fmt.Errorf("mem: memset: %w", err)
	}
	for i := range d {
		d[i] = b
	}
	return nil
}

func rangesOverlap(a, b, n int) bool {
	return a < b+n && b < a+n
}
