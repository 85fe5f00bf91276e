//go:build linux || darwin

package mem

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/memkit/internal/format"
)

// OpenFile creates or opens a file-backed heap and mmaps it read-write so
// stores mutate the file image in place. The file is extended with zeros to
// at least initial bytes, rounded up to whole pages.
func OpenFile(path string, initial int) (*Heap, error) {
	if initial < 0 {
		return nil, fmt.Errorf("mem: open %s: %w (%d)", path, ErrBadSize, initial)
	}
	size := format.AlignPage(initial)
	if size == 0 {
		size = format.PageSize
	}
	if size > format.MaxHeapSize {
		return nil, fmt.Errorf("mem: open %s: %w", path, ErrHeapLimit)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() > int64(size) {
		size = format.AlignPage(int(st.Size()))
		if size > format.MaxHeapSize {
			_ = f.Close()
			return nil, fmt.Errorf("mem: open %s: %w", path, ErrHeapLimit)
		}
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mem: extend %s: %w", path, err)
	}

	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		size,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mem: mmap %s: %w", path, err)
	}

	return &Heap{f: f, data: data, mapped: true}, nil
}

// growFile extends the backing file to newSize bytes and remaps it. The new
// bytes are zero-initialized by the OS. Logical addresses survive the remap
// untouched; only the Go-side mapping moves.
func (h *Heap) growFile(newSize int) error {
	if h.data != nil {
		if err := syscall.Munmap(h.data); err != nil {
			return fmt.Errorf("mem: unmap before grow: %w", err)
		}
		h.data = nil
	}

	if err := h.f.Truncate(int64(newSize)); err != nil {
		return fmt.Errorf("mem: grow file: %w", err)
	}

	data, err := syscall.Mmap(
		int(h.f.Fd()),
		0,
		newSize,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		return fmt.Errorf("mem: remap after grow: %w", err)
	}
	h.data = data
	return nil
}

// Sync flushes the heap image to the backing file. No-op for in-memory heaps.
func (h *Heap) Sync() error {
	if h.f == nil || h.data == nil {
		return nil
	}
	if err := unix.Msync(h.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("mem: msync: %w", err)
	}
	return unix.Fdatasync(int(h.f.Fd()))
}

func (h *Heap) closeFile() error {
	var firstErr error
	if h.data != nil && h.mapped {
		if err := syscall.Munmap(h.data); err != nil && !errors.Is(err, syscall.EINVAL) {
			firstErr = err
		}
		h.data = nil
	}
	if h.f != nil {
		if err := h.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		h.f = nil
	}
	return firstErr
}
