package document

import (
	"fmt"
	"strings"
)

// Struct is a value with named fields declared by a struct type.
// Unset fields are absent, not zero.
type Struct struct {
	typ    *DataType
	values map[string]Value
}

// NewStruct returns an empty struct of type typ.
func NewStruct(typ *DataType) *Struct {
	return &Struct{typ: typ, values: make(map[string]Value, len(typ.fields))}
}

// Kind implements Value.
func (s *Struct) Kind() Kind { return KindStruct }

// Type implements Value.
func (s *Struct) Type() *DataType { return s.typ }

// TypeName implements Value.
func (s *Struct) TypeName() string { return s.typ.Name() }

// Get returns the value of the named field.
func (s *Struct) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether the named field is set.
func (s *Struct) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Set stores v in the named field. v must conform to the declared field type.
func (s *Struct) Set(name string, v Value) error {
	f, ok := s.typ.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, s.typ.name, name)
	}
	if !f.Type.Accepts(v) {
		return typeError(f.Type, v, s.typ.name+"."+name)
	}
	s.values[name] = v
	return nil
}

// MustSet is like Set but panics on error. It returns s for chaining.
func (s *Struct) MustSet(name string, v Value) *Struct {
	if err := s.Set(name, v); err != nil {
		panic(err)
	}
	return s
}

// Remove clears the named field and reports whether it was set.
func (s *Struct) Remove(name string) bool {
	_, ok := s.values[name]
	delete(s.values, name)
	return ok
}

// Len returns the number of set fields.
func (s *Struct) Len() int { return len(s.values) }

// FieldNames returns the names of the set fields in declared order.
func (s *Struct) FieldNames() []string {
	names := make([]string, 0, len(s.values))
	for _, f := range s.typ.fields {
		if _, ok := s.values[f.Name]; ok {
			names = append(names, f.Name)
		}
	}
	return names
}

// Clone implements Value.
func (s *Struct) Clone() Value {
	c := &Struct{typ: s.typ, values: make(map[string]Value, len(s.values))}
	for k, v := range s.values {
		c.values[k] = v.Clone()
	}
	return c
}

// Equal implements Value.
func (s *Struct) Equal(other Value) bool {
	o, ok := other.(*Struct)
	if !ok || !s.typ.Equal(o.typ) || len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String implements Value.
func (s *Struct) String() string {
	var sb strings.Builder
	sb.WriteString(s.typ.name)
	sb.WriteByte('{')
	for i, name := range s.FieldNames() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(s.values[name].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
