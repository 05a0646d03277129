package tensor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

var (
	// ErrInvalidType is returned for malformed tensor type definitions.
	ErrInvalidType = errors.New("invalid tensor type")

	// ErrShapeMismatch is returned when the number of cells does not match
	// the product of the dimension sizes.
	ErrShapeMismatch = errors.New("tensor shape mismatch")

	// ErrIndexOutOfRange is returned by At for invalid cell addresses.
	ErrIndexOutOfRange = errors.New("tensor index out of range")
)

// ShapeMismatchError reports a cell count that disagrees with the type.
//
// It matches ErrShapeMismatch via errors.Is.
type ShapeMismatchError struct {
	Type     string
	Expected uint64
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("tensor shape mismatch: %s needs %d cells, got %d", e.Type, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// Dense is an immutable dense tensor: a type plus its cells in row-major
// order following the declared dimension order.
type Dense struct {
	typ   Type
	cells []float64
}

// NewDense returns a tensor of the given type. The cells are copied.
func NewDense(typ Type, cells []float64) (*Dense, error) {
	if want := typ.CellCount(); want != uint64(len(cells)) {
		return nil, &ShapeMismatchError{Type: typ.String(), Expected: want, Actual: len(cells)}
	}
	return &Dense{typ: typ, cells: slices.Clone(cells)}, nil
}

// Scalar returns a tensor of the double type holding v.
func Scalar(v float64) *Dense {
	return &Dense{typ: Double(), cells: []float64{v}}
}

// Type returns the tensor type.
func (d *Dense) Type() Type { return d.typ }

// Len returns the number of cells.
func (d *Dense) Len() int { return len(d.cells) }

// Cell returns the i-th cell in row-major order.
func (d *Dense) Cell(i int) float64 { return d.cells[i] }

// Cells returns a copy of the cells in row-major order.
func (d *Dense) Cells() []float64 { return slices.Clone(d.cells) }

// At returns the cell addressed by one index per dimension.
func (d *Dense) At(indices ...uint32) (float64, error) {
	if len(indices) != d.typ.Rank() {
		return 0, fmt.Errorf("%w: %d indices for %s", ErrIndexOutOfRange, len(indices), d.typ)
	}
	offset := 0
	for i, idx := range indices {
		dim := d.typ.dims[i]
		if idx >= dim.Size {
			return 0, fmt.Errorf("%w: %s[%d] has size %d", ErrIndexOutOfRange, dim.Name, idx, dim.Size)
		}
		offset = offset*int(dim.Size) + int(idx)
	}
	return d.cells[offset], nil
}

// Equal reports whether both tensors have equal types and cells.
// NaN cells compare equal to NaN cells.
func (d *Dense) Equal(o *Dense) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !d.typ.Equal(o.typ) || len(d.cells) != len(o.cells) {
		return false
	}
	for i, v := range d.cells {
		w := o.cells[i]
		if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
			return false
		}
	}
	return true
}

// String renders the tensor as "tensor(x[2]):[1,2]".
func (d *Dense) String() string {
	var sb strings.Builder
	sb.WriteString(d.typ.String())
	sb.WriteString(":[")
	for i, v := range d.cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}

type denseJSON struct {
	Type  string    `json:"type"`
	Cells []float64 `json:"cells"`
}

// MarshalJSON implements json.Marshaler.
func (d *Dense) MarshalJSON() ([]byte, error) {
	cells := d.cells
	if cells == nil {
		cells = []float64{}
	}
	return json.Marshal(denseJSON{Type: d.typ.String(), Cells: cells})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dense) UnmarshalJSON(data []byte) error {
	var aux denseJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	typ, err := ParseType(aux.Type)
	if err != nil {
		return err
	}
	t, err := NewDense(typ, aux.Cells)
	if err != nil {
		return err
	}
	*d = *t
	return nil
}
