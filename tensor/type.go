package tensor

import (
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/docupdate/wire"
)

// Dimension is a named, fixed-size tensor dimension.
type Dimension struct {
	Name string `json:"name"`
	Size uint32 `json:"size"`
}

// Type is the value type of a dense tensor.
//
// A Type with no dimensions is the scalar double type. Dimension order is
// significant: it defines the row-major layout of the cells.
type Type struct {
	dims []Dimension
}

// Double returns the scalar double type.
func Double() Type { return Type{} }

// NewType returns a dense tensor type over dims in the given order.
// Names must be non-empty and unique; sizes must fit the wire varint.
func NewType(dims ...Dimension) (Type, error) {
	if len(dims) == 0 {
		return Double(), nil
	}
	seen := make(map[string]struct{}, len(dims))
	for _, d := range dims {
		if d.Name == "" {
			return Type{}, fmt.Errorf("%w: empty dimension name", ErrInvalidType)
		}
		if _, ok := seen[d.Name]; ok {
			return Type{}, fmt.Errorf("%w: duplicate dimension %q", ErrInvalidType, d.Name)
		}
		if d.Size > wire.MaxVarint {
			return Type{}, fmt.Errorf("%w: dimension %q size %d exceeds %d", ErrInvalidType, d.Name, d.Size, wire.MaxVarint)
		}
		seen[d.Name] = struct{}{}
	}
	return Type{dims: slices.Clone(dims)}, nil
}

// MustType is like NewType but panics on error.
func MustType(dims ...Dimension) Type {
	t, err := NewType(dims...)
	if err != nil {
		panic(err)
	}
	return t
}

// IsDouble reports whether t is the scalar double type.
func (t Type) IsDouble() bool { return len(t.dims) == 0 }

// Rank returns the number of dimensions.
func (t Type) Rank() int { return len(t.dims) }

// Dimensions returns a copy of the dimensions in declared order.
func (t Type) Dimensions() []Dimension { return slices.Clone(t.dims) }

// Dimension returns the i-th dimension.
func (t Type) Dimension(i int) Dimension { return t.dims[i] }

// CellCount returns the product of all dimension sizes (1 for double).
func (t Type) CellCount() uint64 {
	n := uint64(1)
	for _, d := range t.dims {
		n = mulSat(n, uint64(d.Size))
	}
	return n
}

// Equal reports whether both types have the same dimensions in the same order.
func (t Type) Equal(o Type) bool {
	return slices.Equal(t.dims, o.dims)
}

// String returns the type expression, e.g. "double" or "tensor(x[2],y[3])".
func (t Type) String() string {
	if t.IsDouble() {
		return "double"
	}
	var sb strings.Builder
	sb.WriteString("tensor(")
	for i, d := range t.dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(d.Name)
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatUint(uint64(d.Size), 10))
		sb.WriteByte(']')
	}
	sb.WriteByte(')')
	return sb.String()
}

// ParseType parses a type expression as produced by Type.String.
//
// Accepted forms are "double", "tensor()" and "tensor(x[2],y[3])"; an
// optional cell type "tensor<double>(...)" is accepted as well. Whitespace
// between tokens is ignored.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "double" {
		return Double(), nil
	}
	rest, ok := strings.CutPrefix(s, "tensor")
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	rest = strings.TrimSpace(rest)
	if cell, after, ok := strings.Cut(rest, ">"); ok && strings.HasPrefix(cell, "<") {
		if strings.TrimSpace(cell[1:]) != "double" {
			return Type{}, fmt.Errorf("%w: unsupported cell type in %q", ErrInvalidType, s)
		}
		rest = strings.TrimSpace(after)
	}
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	body := strings.TrimSpace(rest[1 : len(rest)-1])
	if body == "" {
		return Double(), nil
	}

	var dims []Dimension
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		name, size, ok := strings.Cut(part, "[")
		if !ok || !strings.HasSuffix(size, "]") {
			return Type{}, fmt.Errorf("%w: dimension %q is not of the form name[size]", ErrInvalidType, part)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(size[:len(size)-1]), 10, 32)
		if err != nil {
			return Type{}, fmt.Errorf("%w: dimension %q: %v", ErrInvalidType, part, err)
		}
		dims = append(dims, Dimension{Name: strings.TrimSpace(name), Size: uint32(n)})
	}
	return NewType(dims...)
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
