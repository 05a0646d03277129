package document

import (
	"fmt"

	"github.com/hupe1980/docupdate/tensor"
)

// Kind is the capability tag of a field value node.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindScalar marks leaf values (string, int, double, bool, tensor).
	KindScalar
	// KindCollection marks values that hold an ordered list of elements.
	KindCollection
	// KindStruct marks values with named fields.
	KindStruct
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindCollection:
		return "Collection"
	case KindStruct:
		return "Struct"
	default:
		return "Invalid"
	}
}

// TypeKind identifies the shape of a DataType.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeString
	TypeInt
	TypeDouble
	TypeBool
	TypeTensor
	TypeArray
	TypeStruct
)

// Field is a named struct field.
type Field struct {
	Name string
	Type *DataType
}

// DataType is a schema type. DataTypes are immutable once built.
type DataType struct {
	kind   TypeKind
	name   string
	elem   *DataType
	fields []Field
	index  map[string]int
	tensor tensor.Type
}

var (
	// Any accepts every value. Values stored under Any are not
	// self-describing on the wire and cannot be binary encoded.
	Any = &DataType{kind: TypeAny, name: "any"}
	// String is the UTF-8 string type.
	String = &DataType{kind: TypeString, name: "string"}
	// Int is the 64-bit signed integer type.
	Int = &DataType{kind: TypeInt, name: "int"}
	// Double is the 64-bit floating point type.
	Double = &DataType{kind: TypeDouble, name: "double"}
	// Bool is the boolean type.
	Bool = &DataType{kind: TypeBool, name: "bool"}
)

// ArrayOf returns an array type with the given element type.
func ArrayOf(elem *DataType) *DataType {
	return &DataType{kind: TypeArray, name: "array<" + elem.Name() + ">", elem: elem}
}

// TensorOf returns a tensor field type.
func TensorOf(t tensor.Type) *DataType {
	return &DataType{kind: TypeTensor, name: t.String(), tensor: t}
}

// NewStructType returns a named struct type. Field order is preserved and
// used for encoding and iteration.
func NewStructType(name string, fields ...Field) (*DataType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: struct type without name", ErrInvalidType)
	}
	st := &DataType{kind: TypeStruct, name: name, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if err := st.addField(f); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// MustStructType is like NewStructType but panics on error.
func MustStructType(name string, fields ...Field) *DataType {
	st, err := NewStructType(name, fields...)
	if err != nil {
		panic(err)
	}
	return st
}

// AddField appends a field to a struct type under construction.
//
// It exists so that recursive struct types can be built. It must not be
// called once the type is shared.
func (t *DataType) AddField(f Field) error {
	if t.kind != TypeStruct {
		return fmt.Errorf("%w: %s is not a struct type", ErrInvalidType, t.Name())
	}
	return t.addField(f)
}

func (t *DataType) addField(f Field) error {
	if f.Name == "" {
		return fmt.Errorf("%w: struct %s has a field without name", ErrInvalidType, t.name)
	}
	if f.Type == nil {
		return fmt.Errorf("%w: field %s.%s has no type", ErrInvalidType, t.name, f.Name)
	}
	if _, ok := t.index[f.Name]; ok {
		return fmt.Errorf("%w: duplicate field %s.%s", ErrInvalidType, t.name, f.Name)
	}
	t.index[f.Name] = len(t.fields)
	t.fields = append(t.fields, f)
	return nil
}

// Kind returns the type kind.
func (t *DataType) Kind() TypeKind { return t.kind }

// NodeKind returns the capability kind of values of this type.
// Any has no fixed node kind and returns KindInvalid.
func (t *DataType) NodeKind() Kind {
	switch t.kind {
	case TypeString, TypeInt, TypeDouble, TypeBool, TypeTensor:
		return KindScalar
	case TypeArray:
		return KindCollection
	case TypeStruct:
		return KindStruct
	default:
		return KindInvalid
	}
}

// Name returns the type name used in diagnostics, e.g. "array<string>".
func (t *DataType) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// String implements fmt.Stringer.
func (t *DataType) String() string { return t.Name() }

// Elem returns the element type of an array type, or nil.
func (t *DataType) Elem() *DataType { return t.elem }

// Tensor returns the tensor type of a tensor field type.
func (t *DataType) Tensor() tensor.Type { return t.tensor }

// Field returns the struct field with the given name.
func (t *DataType) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// Fields returns the struct fields in declared order.
func (t *DataType) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Equal reports whether t and o describe the same type.
// Struct types are nominal: they are equal when their names are.
func (t *DataType) Equal(o *DataType) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.kind != o.kind {
		return false
	}
	switch t.kind {
	case TypeArray:
		return t.elem.Equal(o.elem)
	case TypeStruct:
		return t.name == o.name
	case TypeTensor:
		return t.tensor.Equal(o.tensor)
	default:
		return true
	}
}

// IsAssignable reports whether values of type src may be stored where dst is
// declared.
func IsAssignable(src, dst *DataType) bool {
	if src == nil || dst == nil {
		return false
	}
	if dst.kind == TypeAny {
		return true
	}
	if src.kind != dst.kind {
		return false
	}
	if src.kind == TypeArray {
		return IsAssignable(src.elem, dst.elem)
	}
	return src.Equal(dst)
}

// Accepts reports whether v may be stored where t is declared.
func (t *DataType) Accepts(v Value) bool {
	if v == nil {
		return false
	}
	return IsAssignable(v.Type(), t)
}

// NewValue returns the empty value of this type: "" / 0 / false, a zero
// filled tensor, an empty array or an empty struct. Any has no empty value
// and returns nil.
func (t *DataType) NewValue() Value {
	switch t.kind {
	case TypeString:
		return NewString("")
	case TypeInt:
		return NewInt(0)
	case TypeDouble:
		return NewDouble(0)
	case TypeBool:
		return NewBool(false)
	case TypeTensor:
		d, err := tensor.NewDense(t.tensor, make([]float64, t.tensor.CellCount()))
		if err != nil {
			return nil
		}
		return &Scalar{typ: t, t: d}
	case TypeArray:
		return &Array{typ: t}
	case TypeStruct:
		return NewStruct(t)
	default:
		return nil
	}
}
