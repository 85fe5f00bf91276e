// Package cabi computes C type sizes, alignments, and aggregate layouts
// for common data models.
//
// Layouts follow the usual C rules: each member is placed at the next
// offset aligned to its own alignment, the aggregate alignment is the
// maximum member alignment, and the total size is padded out to a multiple
// of that alignment. Unions overlap all members at offset zero.
package cabi

import (
	"errors"
	"fmt"

	"github.com/joshuapare/memkit/internal/buf"
)

// Model selects pointer and long widths.
type Model int

const (
	// LP64 is the usual 64-bit Unix model: 8-byte long and pointer.
	LP64 Model = iota

	// ILP32 is the 32-bit model: 4-byte int, long, and pointer.
	ILP32
)

func (m Model) String() string {
	switch m {
	case LP64:
		return "lp64"
	case ILP32:
		return "ilp32"
	default:
		return fmt.Sprintf("model(%d)", int(m))
	}
}

// Kind identifies a scalar C type.
type Kind int

const (
	Char Kind = iota
	Short
	Int
	Long
	LongLong
	Float
	Double
	Pointer
)

var kindNames = [...]string{"char", "short", "int", "long", "long long", "float", "double", "pointer"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	// ErrBadKind is returned for a Kind outside the defined set.
	ErrBadKind = errors.New("cabi: unknown scalar kind")

	// ErrLayoutOverflow is returned when a layout size does not fit in int.
	ErrLayoutOverflow = errors.New("cabi: layout size overflow")

	// ErrEmptyAggregate is returned for a struct or union with no members.
	ErrEmptyAggregate = errors.New("cabi: empty aggregate")
)

// SizeOf returns the size in bytes of a scalar kind under the model.
func SizeOf(m Model, k Kind) (int, error) {
	switch k {
	case Char:
		return 1, nil
	case Short:
		return 2, nil
	case Int, Float:
		return 4, nil
	case LongLong, Double:
		return 8, nil
	case Long, Pointer:
		if m == ILP32 {
			return 4, nil
		}
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBadKind, int(k))
	}
}

// AlignOf returns the alignment of a scalar kind under the model. Every
// scalar here is naturally aligned, so it equals the size.
func AlignOf(m Model, k Kind) (int, error) {
	return SizeOf(m, k)
}

// Field is one member of an aggregate: an explicit size and alignment,
// typically produced by SizeOf/AlignOf or a nested Layout.
type Field struct {
	Name  string
	Size  int
	Align int
}

// Scalar builds a Field for a named scalar member.
func Scalar(m Model, name string, k Kind) (Field, error) {
	size, err := SizeOf(m, k)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: name, Size: size, Align: size}, nil
}

// Layout describes the computed placement of an aggregate.
type Layout struct {
	Size    int
	Align   int
	Offsets []int
}

func alignUp(off, align int) (int, bool) {
	sum, ok := buf.AddOverflowSafe(off, align-1)
	if !ok {
		return 0, false
	}
	return sum - sum%align, true
}

// Struct lays out fields sequentially with natural alignment padding.
func Struct(fields []Field) (Layout, error) {
	if len(fields) == 0 {
		return Layout{}, ErrEmptyAggregate
	}
	l := Layout{Align: 1, Offsets: make([]int, len(fields))}
	off := 0
	for i, f := range fields {
		if f.Align < 1 || f.Size < 0 {
			return Layout{}, fmt.Errorf("cabi: field %q: bad size/align %d/%d", f.Name, f.Size, f.Align)
		}
		var ok bool
		off, ok = alignUp(off, f.Align)
		if !ok {
			return Layout{}, ErrLayoutOverflow
		}
		l.Offsets[i] = off
		off, ok = buf.AddOverflowSafe(off, f.Size)
		if !ok {
			return Layout{}, ErrLayoutOverflow
		}
		if f.Align > l.Align {
			l.Align = f.Align
		}
	}
	size, ok := alignUp(off, l.Align)
	if !ok {
		return Layout{}, ErrLayoutOverflow
	}
	l.Size = size
	return l, nil
}

// Union overlaps all fields at offset zero; size is the largest member
// padded to the aggregate alignment.
func Union(fields []Field) (Layout, error) {
	if len(fields) == 0 {
		return Layout{}, ErrEmptyAggregate
	}
	l := Layout{Align: 1, Offsets: make([]int, len(fields))}
	maxSize := 0
	for i, f := range fields {
		if f.Align < 1 || f.Size < 0 {
			return Layout{}, fmt.Errorf("cabi: field %q: bad size/align %d/%d", f.Name, f.Size, f.Align)
		}
		l.Offsets[i] = 0
		if f.Size > maxSize {
			maxSize = f.Size
		}
		if f.Align > l.Align {
			l.Align = f.Align
		}
	}
	size, ok := alignUp(maxSize, l.Align)
	if !ok {
		return Layout{}, ErrLayoutOverflow
	}
	l.Size = size
	return l, nil
}

// Array returns the size of count elements of elem laid out contiguously.
// The element stride is elem.Size rounded up to elem.Align.
func Array(elem Field, count int) (Layout, error) {
	if count < 0 {
		return Layout{}, fmt.Errorf("cabi: negative array count %d", count)
	}
	if elem.Align < 1 || elem.Size < 0 {
		return Layout{}, fmt.Errorf("cabi: element %q: bad size/align %d/%d", elem.Name, elem.Size, elem.Align)
	}
	stride, ok := alignUp(elem.Size, elem.Align)
	if !ok {
		return Layout{}, ErrLayoutOverflow
	}
	size, ok := buf.MulOverflowSafe(stride, count)
	if !ok {
		return Layout{}, ErrLayoutOverflow
	}
	return Layout{Size: size, Align: elem.Align}, nil
}
