package document

import (
	"fmt"
	"strings"
)

// Array is an ordered collection of values sharing one declared element type.
type Array struct {
	typ   *DataType
	elems []Value
}

var _ Collection = (*Array)(nil)

// NewArray returns an array of the given array type holding clones of elems.
func NewArray(typ *DataType, elems ...Value) (*Array, error) {
	if typ == nil || typ.kind != TypeArray {
		return nil, fmt.Errorf("%w: %s is not an array type", ErrInvalidType, typ.Name())
	}
	a := &Array{typ: typ, elems: make([]Value, 0, len(elems))}
	for _, e := range elems {
		if err := a.Add(e.Clone()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// MustArray is like NewArray but panics on error.
func MustArray(typ *DataType, elems ...Value) *Array {
	a, err := NewArray(typ, elems...)
	if err != nil {
		panic(err)
	}
	return a
}

// Strings returns an array<string> holding vs.
func Strings(vs ...string) *Array {
	a := &Array{typ: ArrayOf(String), elems: make([]Value, len(vs))}
	for i, s := range vs {
		a.elems[i] = NewString(s)
	}
	return a
}

// Kind implements Value.
func (a *Array) Kind() Kind { return KindCollection }

// Type implements Value.
func (a *Array) Type() *DataType { return a.typ }

// TypeName implements Value.
func (a *Array) TypeName() string { return a.typ.Name() }

// ElementType implements Collection.
func (a *Array) ElementType() *DataType { return a.typ.elem }

// Len implements Collection.
func (a *Array) Len() int { return len(a.elems) }

// At implements Collection. It returns nil for out of range positions.
func (a *Array) At(i int) Value {
	if i < 0 || i >= len(a.elems) {
		return nil
	}
	return a.elems[i]
}

// Elements returns the elements. The slice is shared; callers must not
// modify it.
func (a *Array) Elements() []Value { return a.elems }

// Add implements Collection. v is stored as is; callers that do not own v
// must clone it first.
func (a *Array) Add(v Value) error {
	if !a.typ.elem.Accepts(v) {
		return typeError(a.typ.elem, v, a.typ.name)
	}
	a.elems = append(a.elems, v)
	return nil
}

// Set implements Collection.
func (a *Array) Set(i int, v Value) error {
	if i < 0 || i >= len(a.elems) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(a.elems))
	}
	if !a.typ.elem.Accepts(v) {
		return typeError(a.typ.elem, v, a.typ.name)
	}
	a.elems[i] = v
	return nil
}

// RemoveAt implements Collection.
func (a *Array) RemoveAt(i int) error {
	if i < 0 || i >= len(a.elems) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(a.elems))
	}
	copy(a.elems[i:], a.elems[i+1:])
	a.elems[len(a.elems)-1] = nil
	a.elems = a.elems[:len(a.elems)-1]
	return nil
}

// Clone implements Value.
func (a *Array) Clone() Value {
	c := &Array{typ: a.typ, elems: make([]Value, len(a.elems))}
	for i, e := range a.elems {
		c.elems[i] = e.Clone()
	}
	return c
}

// Equal implements Value.
func (a *Array) Equal(other Value) bool {
	o, ok := other.(*Array)
	if !ok || !a.typ.Equal(o.typ) || len(a.elems) != len(o.elems) {
		return false
	}
	for i := range a.elems {
		if !a.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// String implements Value.
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
