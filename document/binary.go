package document

import (
	"fmt"

	"github.com/hupe1980/docupdate/tensor"
	"github.com/hupe1980/docupdate/wire"
)

// Values are encoded without type tags; the reader supplies the declared
// type:
//
//	string  length-prefixed bytes
//	int     8 bytes, big-endian two's complement
//	double  8 bytes, IEEE 754 big-endian
//	bool    1 byte (0 or 1)
//	tensor  dense tensor binary format
//	array   varint count, then count elements
//	struct  varint count, then count {string field name, value} pairs
//
// Values declared as any are not self-describing and cannot be encoded.

// EncodeValue appends v to c using the layout of the declared type typ.
func EncodeValue(c *wire.Cursor, typ *DataType, v Value) error {
	if typ.kind == TypeAny {
		return fmt.Errorf("encode %s: %w", typ.name, ErrNotSelfDescribing)
	}
	if !typ.Accepts(v) {
		return typeError(typ, v, "")
	}
	switch typ.kind {
	case TypeString:
		s, _ := AsScalar(v)
		return c.PutString(s.s)
	case TypeInt:
		s, _ := AsScalar(v)
		c.PutInt64(s.i)
	case TypeDouble:
		s, _ := AsScalar(v)
		c.PutFloat64(s.f)
	case TypeBool:
		s, _ := AsScalar(v)
		c.PutBool(s.b)
	case TypeTensor:
		s, _ := AsScalar(v)
		return s.t.Encode(c)
	case TypeArray:
		a, _ := AsCollection(v)
		if a.Len() > wire.MaxVarint {
			return wire.ErrVarintOverflow
		}
		if err := c.PutVarint(uint32(a.Len())); err != nil { //nolint:gosec // bounded above
			return err
		}
		for i := range a.Len() {
			if err := EncodeValue(c, typ.elem, a.At(i)); err != nil {
				return err
			}
		}
	case TypeStruct:
		st, _ := AsStruct(v)
		names := st.FieldNames()
		if err := c.PutVarint(uint32(len(names))); err != nil { //nolint:gosec // field count is small
			return err
		}
		for _, name := range names {
			f, _ := typ.Field(name)
			if err := c.PutString(name); err != nil {
				return err
			}
			if err := EncodeValue(c, f.Type, st.values[name]); err != nil {
				return fmt.Errorf("encode %s.%s: %w", typ.name, name, err)
			}
		}
	}
	return nil
}

// DecodeValue reads a value of the declared type typ from c. field names the
// wire sub-field in decode errors.
//
// Element and field counts are checked against the remaining input before
// storage is allocated. On error no value is returned.
func DecodeValue(c *wire.Cursor, typ *DataType, field string) (Value, error) {
	switch typ.kind {
	case TypeString:
		s, err := c.String(field)
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case TypeInt:
		i, err := c.Int64(field)
		if err != nil {
			return nil, err
		}
		return NewInt(i), nil
	case TypeDouble:
		f, err := c.Float64(field)
		if err != nil {
			return nil, err
		}
		return NewDouble(f), nil
	case TypeBool:
		b, err := c.Bool(field)
		if err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case TypeTensor:
		t, err := tensor.Decode(c)
		if err != nil {
			return nil, err
		}
		if !t.Type().Equal(typ.tensor) {
			return nil, c.Malformed(field, "tensor type %s does not match declared %s", t.Type(), typ.tensor)
		}
		return &Scalar{typ: typ, t: t}, nil
	case TypeArray:
		return decodeArray(c, typ, field)
	case TypeStruct:
		return decodeStruct(c, typ, field)
	default:
		return nil, fmt.Errorf("decode %s: %w", field, ErrNotSelfDescribing)
	}
}

func decodeArray(c *wire.Cursor, typ *DataType, field string) (Value, error) {
	count, err := c.Varint(field + " count")
	if err != nil {
		return nil, err
	}
	if err := c.RequireElems(uint64(count), minEncodedSize(typ.elem), field); err != nil {
		return nil, err
	}
	a := &Array{typ: typ, elems: make([]Value, 0, count)}
	for i := range int(count) {
		v, err := DecodeValue(c, typ.elem, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		a.elems = append(a.elems, v)
	}
	return a, nil
}

func decodeStruct(c *wire.Cursor, typ *DataType, field string) (Value, error) {
	at := c.Pos()
	count, err := c.Varint(field + " field count")
	if err != nil {
		return nil, err
	}
	if int(count) > len(typ.fields) {
		return nil, c.Malformed(field, "%d fields set, %s declares %d", count, typ.name, len(typ.fields))
	}
	st := NewStruct(typ)
	for range int(count) {
		name, err := c.String(field + " field name")
		if err != nil {
			return nil, err
		}
		f, ok := typ.Field(name)
		if !ok {
			return nil, c.Malformed(field, "unknown field %s.%s (struct at offset %d)", typ.name, name, at)
		}
		if st.Has(name) {
			return nil, c.Malformed(field, "duplicate field %s.%s", typ.name, name)
		}
		v, err := DecodeValue(c, f.Type, field+"."+name)
		if err != nil {
			return nil, err
		}
		st.values[name] = v
	}
	return st, nil
}

// minEncodedSize returns a lower bound of the encoded size of a value.
func minEncodedSize(t *DataType) int {
	switch t.kind {
	case TypeInt, TypeDouble:
		return 8
	default:
		return 1
	}
}
