// Package cstr implements NUL-terminated string operations over a heap.
//
// The functions mirror the classic libc string family: lengths never
// include the terminator, copies always write one, and comparisons treat
// bytes as unsigned. Strings that run past the end of the heap without a
// terminator are reported as mem.ErrOOB rather than read out of bounds.
package cstr

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/memkit/mem"
)

// Strlen returns the number of bytes before the first NUL at addr.
func Strlen(h *mem.Heap, addr mem.Addr) (int, error) {
	data := h.Bytes()
	off := int(addr)
	if off < 0 || off >= len(data) {
		return 0, mem.ErrOOB
	}
	for i := off; i < len(data); i++ {
		if data[i] == 0 {
			return i - off, nil
		}
	}
	// Ran off the end of the heap without a terminator.
	return 0, mem.ErrOOB
}

// Strcpy copies the string at src, terminator included, to dst. Returns
// the number of payload bytes copied (excluding the NUL).
func Strcpy(h *mem.Heap, dst, src mem.Addr) (int, error) {
	n, err := Strlen(h, src)
	if err != nil {
		return 0, err
	}
	if err := h.Memmove(dst, src, n+1); err != nil {
		return 0, err
	}
	return n, nil
}

// Strncpy copies at most n bytes from the string at src to dst. Like its
// libc namesake it zero-pads dst out to n bytes when the source is short,
// and does not terminate dst when the source is at least n bytes long.
func Strncpy(h *mem.Heap, dst, src mem.Addr, n int) error {
	if n <= 0 {
		return nil
	}
	srcLen, err := Strlen(h, src)
	if err != nil {
		return err
	}
	copyN := srcLen
	if copyN > n {
		copyN = n
	}
	if err := h.Memmove(dst, src, copyN); err != nil {
		return err
	}
	if copyN < n {
		return h.Memset(dst+mem.Addr(copyN), 0, n-copyN)
	}
	return nil
}

// Strcmp compares the strings at a and b byte-wise as unsigned values,
// returning -1, 0, or 1.
func Strcmp(h *mem.Heap, a, b mem.Addr) (int, error) {
	data := h.Bytes()
	ia, ib := int(a), int(b)
	for {
		if ia >= len(data) || ib >= len(data) {
			return 0, mem.ErrOOB
		}
		ca, cb := data[ia], data[ib]
		switch {
		case ca < cb:
			return -1, nil
		case ca > cb:
			return 1, nil
		case ca == 0:
			return 0, nil
		}
		ia++
		ib++
	}
}

// Strncmp compares at most n bytes of the strings at a and b.
func Strncmp(h *mem.Heap, a, b mem.Addr, n int) (int, error) {
	data := h.Bytes()
	ia, ib := int(a), int(b)
	for i := 0; i < n; i++ {
		if ia >= len(data) || ib >= len(data) {
			return 0, mem.ErrOOB
		}
		ca, cb := data[ia], data[ib]
		switch {
		case ca < cb:
			return -1, nil
		case ca > cb:
			return 1, nil
		case ca == 0:
			return 0, nil
		}
		ia++
		ib++
	}
	return 0, nil
}

// Memchr returns the address of the first occurrence of c in the n bytes
// at addr, or mem.NullAddr when c is absent.
func Memchr(h *mem.Heap, addr mem.Addr, c byte, n int) (mem.Addr, error) {
	region, err := h.Region(addr, n)
	if err != nil {
		return mem.NullAddr, err
	}
	for i := 0; i < n; i++ {
		if region[i] == c {
			return addr + mem.Addr(i), nil
		}
	}
	return mem.NullAddr, nil
}

// WriteString stores s at addr followed by a NUL terminator and returns
// the total number of bytes written, terminator included.
func WriteString(h *mem.Heap, addr mem.Addr, s string) (int, error) {
	region, err := h.Region(addr, len(s)+1)
	if err != nil {
		return 0, err
	}
	copy(region, s)
	region[len(s)] = 0
	return len(s) + 1, nil
}

// GoString reads the NUL-terminated string at addr into a Go string. The
// bytes are returned verbatim; use DecodeWindows1252 for legacy 8-bit
// text.
func GoString(h *mem.Heap, addr mem.Addr) (string, error) {
	n, err := Strlen(h, addr)
	if err != nil {
		return "", err
	}
	region, err := h.Region(addr, n)
	if err != nil {
		return "", err
	}
	return string(region[:n]), nil
}

// DecodeWindows1252 reads the NUL-terminated string at addr and decodes
// it from Windows-1252 into UTF-8.
func DecodeWindows1252(h *mem.Heap, addr mem.Addr) (string, error) {
	n, err := Strlen(h, addr)
	if err != nil {
		return "", err
	}
	region, err := h.Region(addr, n)
	if err != nil {
		return "", err
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(region[:n])
	if err != nil {
		return "", err
	}
	return string(out), nil
}
