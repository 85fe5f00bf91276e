//go:build !linux && !darwin

package mem

import (
	"fmt"
	"os"

	"github.com/joshuapare/memkit/internal/format"
)

// OpenFile creates or opens a file-backed heap. On platforms without the
// mmap path the file is read into an ordinary buffer; Sync writes the whole
// image back.
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

	data := make([]byte, size)
	if _, err := f.ReadAt(data[:st.Size()], 0); err != nil && st.Size() > 0 {
		_ = f.Close()
		return nil, fmt.Errorf("mem: read %s: %w", path, err)
	}
	return &Heap{f: f, data: data}, nil
}

// growFile extends the buffer; the file itself is extended on the next Sync.
func (h *Heap) growFile(newSize int) error {
	newData := make([]byte, newSize)
	copy(newData, h.data)
	h.data = newData
	return nil
}

// Sync writes the heap image back to the file. No-op for in-memory heaps.
func (h *Heap) Sync() error {
	if h.f == nil || h.data == nil {
		return nil
	}
	if err := h.f.Truncate(int64(len(h.data))); err != nil {
		return fmt.Errorf("mem: sync truncate: %w", err)
	}
	if _, err := h.f.WriteAt(h.data, 0); err != nil {
		return fmt.Errorf("mem: sync write: %w", err)
	}
	return h.f.Sync()
}

func (h *Heap) closeFile() error {
	err := h.Sync()
	if h.f != nil {
		if cerr := h.f.Close(); err == nil {
			err = cerr
		}
		h.f = nil
	}
	h.data = nil
	return err
}
