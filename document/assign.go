package document

// Assign overwrites the content of dst with a deep copy of src.
//
// dst keeps its identity, so references held by a parent stay valid. Both
// values must share a kind and src must be assignable to dst's type;
// otherwise a *TypeError is returned and dst is left unchanged.
func Assign(dst, src Value) error {
	if dst == nil {
		return &TypeError{Declared: "<nil>", Actual: typeName(src)}
	}
	return AssignAs(dst.Type(), dst, src)
}

// AssignAs is like Assign but checks src against declared, the type of the
// field dst is stored in, instead of dst's own type. Under a field declared
// any, dst takes over the type of src.
func AssignAs(declared *DataType, dst, src Value) error {
	if dst == nil {
		return &TypeError{Declared: declared.Name(), Actual: typeName(src)}
	}
	if src == nil || dst.Kind() != src.Kind() || !declared.Accepts(src) {
		return typeError(declared, src, "")
	}
	retype := declared.Kind() == TypeAny
	switch d := dst.(type) {
	case *Scalar:
		s, _ := AsScalar(src)
		*d = *s
	case *Array:
		c, _ := AsCollection(src)
		elems := make([]Value, c.Len())
		for i := range elems {
			elems[i] = c.At(i).Clone()
		}
		d.elems = elems
		if retype {
			d.typ = src.Type()
		}
	case *Struct:
		s, _ := AsStruct(src)
		values := make(map[string]Value, len(s.values))
		for k, v := range s.values {
			values[k] = v.Clone()
		}
		d.values = values
		if retype {
			d.typ = s.typ
		}
	default:
		return typeError(declared, src, "")
	}
	return nil
}
