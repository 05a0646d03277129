package fieldpath

import (
	"fmt"
	"slices"

	"github.com/hupe1980/docupdate/document"
)

// Iterate walks root along p and hands every matched node to h.
//
// Field segments step into struct fields, index segments into one
// collection element and wildcards into every element in order. Segments
// that do not match the node they are applied to select nothing. With
// h.CreateMissingPath, absent struct fields are created empty from their
// declared type; a created field that ends up NotModified is removed again.
// If h is a LeafCreator, an absent leaf field is built by the handler
// instead. A missing field without an empty value (declared any) fails with
// ErrNotCreatable unless the handler builds it.
//
// pred, if non-nil, is evaluated on each matched node before the handler.
// Nodes the handler reports as Removed are excised from their parent after
// DoModify returns.
//
// Iterate returns Modified if any node was modified or removed. A handler or
// predicate error stops the walk immediately; changes made before the error
// are kept.
func Iterate(root document.Value, p Path, pred Predicate, h IteratorHandler) (ModificationStatus, error) {
	w := &walker{path: p, pred: pred, h: h, root: root, at: make(Path, 0, len(p))}
	s, err := w.walk(root, 0)
	if s == Removed {
		// The root itself cannot be excised.
		s = Modified
	}
	return s, err
}

type walker struct {
	path Path
	pred Predicate
	h    IteratorHandler
	root document.Value
	at   Path
}

func (w *walker) walk(node document.Value, depth int) (ModificationStatus, error) {
	if depth == len(w.path) {
		return w.leaf(node)
	}

	seg := w.path[depth]
	switch seg.Kind {
	case SegmentField:
		return w.field(node, seg.Name, depth)
	case SegmentIndex:
		c, ok := document.AsCollection(node)
		if !ok || seg.Index >= c.Len() {
			return NotModified, nil
		}
		s, err := w.child(c.At(seg.Index), Index(seg.Index), depth)
		if err != nil {
			return changed(s), err
		}
		if s == Removed {
			if err := c.RemoveAt(seg.Index); err != nil {
				return NotModified, err
			}
		}
		return changed(s), nil
	default:
		c, ok := document.AsCollection(node)
		if !ok {
			return NotModified, nil
		}
		agg := NotModified
		for i, pos := 0, 0; i < c.Len(); pos++ {
			s, err := w.child(c.At(i), Index(pos), depth)
			if s.Changed() {
				agg = Modified
			}
			if err != nil {
				return agg, err
			}
			if s == Removed {
				if err := c.RemoveAt(i); err != nil {
					return agg, err
				}
				continue
			}
			i++
		}
		return agg, nil
	}
}

func (w *walker) field(node document.Value, name string, depth int) (ModificationStatus, error) {
	st, ok := document.AsStruct(node)
	if !ok {
		return NotModified, nil
	}
	value, ok := st.Get(name)
	created := false
	if !ok {
		if !w.h.CreateMissingPath() {
			return NotModified, nil
		}
		f, ok := st.Type().Field(name)
		if !ok {
			return NotModified, nil
		}
		if lc, ok := w.h.(LeafCreator); ok && depth+1 == len(w.path) {
			return w.createLeaf(st, f, lc)
		}
		if value = f.Type.NewValue(); value == nil {
			return NotModified, fmt.Errorf("%w: %s declared %s", ErrNotCreatable, append(slices.Clone(w.at), Field(name)), f.Type.Name())
		}
		if err := st.Set(name, value); err != nil {
			return NotModified, err
		}
		created = true
	}

	s, err := w.child(value, Field(name), depth)
	switch {
	case s == Removed && err == nil:
		st.Remove(name)
	case s == NotModified && created:
		st.Remove(name)
	}
	return changed(s), err
}

// createLeaf lets lc build the absent leaf field f of st. The predicate
// sees the empty value of the declared type, nil for any.
func (w *walker) createLeaf(st *document.Struct, f document.Field, lc LeafCreator) (ModificationStatus, error) {
	w.at = append(w.at, Field(f.Name))
	defer func() { w.at = w.at[:len(w.at)-1] }()

	if w.pred != nil {
		ok, err := w.pred.Match(Location{Path: slices.Clone(w.at), Value: f.Type.NewValue(), Root: w.root})
		if err != nil || !ok {
			return NotModified, err
		}
	}
	value, err := lc.CreateLeaf(f.Type)
	if err != nil || value == nil {
		return NotModified, err
	}
	if err := st.Set(f.Name, value); err != nil {
		return NotModified, err
	}
	return Modified, nil
}

func (w *walker) child(node document.Value, seg Segment, depth int) (ModificationStatus, error) {
	w.at = append(w.at, seg)
	defer func() { w.at = w.at[:len(w.at)-1] }()
	return w.walk(node, depth+1)
}

func (w *walker) leaf(node document.Value) (ModificationStatus, error) {
	if w.pred != nil {
		ok, err := w.pred.Match(Location{Path: slices.Clone(w.at), Value: node, Root: w.root})
		if err != nil || !ok {
			return NotModified, err
		}
	}

	st, ok := document.AsStruct(node)
	if !ok || !w.h.OnComplex(Content{Path: slices.Clone(w.at), Value: node}) {
		return w.h.DoModify(node)
	}

	agg := NotModified
	for _, name := range st.FieldNames() {
		value, _ := st.Get(name)
		s, err := w.h.DoModify(value)
		if s.Changed() {
			agg = Modified
		}
		if err != nil {
			return agg, err
		}
		if s == Removed {
			st.Remove(name)
		}
	}
	return agg, nil
}

// changed maps a child status to the status of its parent: excising a
// child modifies the parent.
func changed(s ModificationStatus) ModificationStatus {
	if s.Changed() {
		return Modified
	}
	return NotModified
}
