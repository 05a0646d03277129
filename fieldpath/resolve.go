package fieldpath

import (
	"fmt"

	"github.com/hupe1980/docupdate/document"
)

// TypeAt returns the declared type of the values p selects below root.
//
// Everything below a field declared as any is any.
func TypeAt(root *document.DataType, p Path) (*document.DataType, error) {
	t := root
	for i, seg := range p {
		if t.Kind() == document.TypeAny {
			return document.Any, nil
		}
		switch seg.Kind {
		case SegmentField:
			if t.Kind() != document.TypeStruct {
				return nil, fmt.Errorf("%w: %s is %s, not a struct", ErrInvalidPath, p[:i], t)
			}
			f, ok := t.Field(seg.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field %q", ErrFieldNotFound, t, seg.Name)
			}
			t = f.Type
		case SegmentIndex, SegmentWildcard:
			if t.Kind() != document.TypeArray {
				return nil, fmt.Errorf("%w: %s is %s, not a collection", ErrInvalidPath, p[:i], t)
			}
			t = t.Elem()
		}
	}
	return t, nil
}
