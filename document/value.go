package document

import (
	"math"
	"strconv"

	"github.com/hupe1980/docupdate/tensor"
)

// Value is a node in a document's field value tree.
//
// Callers dispatch on Kind and use AsScalar, AsCollection or AsStruct to
// obtain the matching capability.
type Value interface {
	// Kind returns the capability tag of the node.
	Kind() Kind
	// Type returns the concrete data type of the node.
	Type() *DataType
	// TypeName returns the type name for diagnostics.
	TypeName() string
	// Clone returns a deep, independent copy.
	Clone() Value
	// Equal reports structural equality. Values of different kinds are
	// never equal.
	Equal(other Value) bool
	// String returns a compact human-readable rendering.
	String() string
}

// Collection is the capability of values holding an ordered element list.
type Collection interface {
	Value
	// Add appends v after the existing elements.
	Add(v Value) error
	// Len returns the number of elements.
	Len() int
	// At returns the i-th element.
	At(i int) Value
	// Set replaces the i-th element.
	Set(i int, v Value) error
	// RemoveAt removes the i-th element, shifting later elements down.
	RemoveAt(i int) error
	// ElementType returns the declared element type.
	ElementType() *DataType
}

// AsScalar returns v as a *Scalar if it has the Scalar capability.
func AsScalar(v Value) (*Scalar, bool) {
	if v == nil || v.Kind() != KindScalar {
		return nil, false
	}
	s, ok := v.(*Scalar)
	return s, ok
}

// AsCollection returns v's Collection capability.
func AsCollection(v Value) (Collection, bool) {
	if v == nil || v.Kind() != KindCollection {
		return nil, false
	}
	c, ok := v.(Collection)
	return c, ok
}

// AsStruct returns v as a *Struct if it has the Struct capability.
func AsStruct(v Value) (*Struct, bool) {
	if v == nil || v.Kind() != KindStruct {
		return nil, false
	}
	s, ok := v.(*Struct)
	return s, ok
}

// Scalar is a leaf value: string, int, double, bool or tensor.
type Scalar struct {
	typ *DataType
	s   string
	i   int64
	f   float64
	b   bool
	t   *tensor.Dense
}

// NewString returns a string value.
func NewString(v string) *Scalar { return &Scalar{typ: String, s: v} }

// NewInt returns an int value.
func NewInt(v int64) *Scalar { return &Scalar{typ: Int, i: v} }

// NewDouble returns a double value.
func NewDouble(v float64) *Scalar { return &Scalar{typ: Double, f: v} }

// NewBool returns a bool value.
func NewBool(v bool) *Scalar { return &Scalar{typ: Bool, b: v} }

// NewTensor returns a tensor value. Tensors are immutable and shared.
func NewTensor(t *tensor.Dense) *Scalar {
	return &Scalar{typ: TensorOf(t.Type()), t: t}
}

// Kind implements Value.
func (s *Scalar) Kind() Kind { return KindScalar }

// Type implements Value.
func (s *Scalar) Type() *DataType { return s.typ }

// TypeName implements Value.
func (s *Scalar) TypeName() string { return s.typ.Name() }

// Clone implements Value.
func (s *Scalar) Clone() Value {
	c := *s
	return &c
}

// Equal implements Value.
func (s *Scalar) Equal(other Value) bool {
	o, ok := AsScalar(other)
	if !ok || !s.typ.Equal(o.typ) {
		return false
	}
	switch s.typ.kind {
	case TypeString:
		return s.s == o.s
	case TypeInt:
		return s.i == o.i
	case TypeDouble:
		return s.f == o.f || (math.IsNaN(s.f) && math.IsNaN(o.f))
	case TypeBool:
		return s.b == o.b
	case TypeTensor:
		return s.t.Equal(o.t)
	default:
		return false
	}
}

// AsString returns the string value if the scalar is a string.
func (s *Scalar) AsString() (string, bool) { return s.s, s.typ.kind == TypeString }

// AsInt64 returns the int value if the scalar is an int.
func (s *Scalar) AsInt64() (int64, bool) { return s.i, s.typ.kind == TypeInt }

// AsFloat64 returns the double value if the scalar is a double.
func (s *Scalar) AsFloat64() (float64, bool) { return s.f, s.typ.kind == TypeDouble }

// AsBool returns the bool value if the scalar is a bool.
func (s *Scalar) AsBool() (bool, bool) { return s.b, s.typ.kind == TypeBool }

// AsTensor returns the tensor if the scalar is a tensor.
func (s *Scalar) AsTensor() (*tensor.Dense, bool) { return s.t, s.typ.kind == TypeTensor }

// IsZero reports whether the scalar is a numeric zero.
func (s *Scalar) IsZero() bool {
	switch s.typ.kind {
	case TypeInt:
		return s.i == 0
	case TypeDouble:
		return s.f == 0
	default:
		return false
	}
}

// String implements Value.
func (s *Scalar) String() string {
	switch s.typ.kind {
	case TypeString:
		return strconv.Quote(s.s)
	case TypeInt:
		return strconv.FormatInt(s.i, 10)
	case TypeDouble:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(s.b)
	case TypeTensor:
		return s.t.String()
	default:
		return "invalid"
	}
}
