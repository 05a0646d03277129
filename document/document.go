package document

import (
	"fmt"
)

// Document is a typed, identified struct value.
type Document struct {
	id    string
	root  *Struct
	dirty bool
}

// New returns an empty document of the given struct type.
func New(typ *DataType, id string) (*Document, error) {
	if typ == nil || typ.kind != TypeStruct {
		return nil, fmt.Errorf("%w: document type %s is not a struct type", ErrInvalidType, typ.Name())
	}
	return &Document{id: id, root: NewStruct(typ)}, nil
}

// MustNew is like New but panics on error.
func MustNew(typ *DataType, id string) *Document {
	d, err := New(typ, id)
	if err != nil {
		panic(err)
	}
	return d
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Type returns the document type.
func (d *Document) Type() *DataType { return d.root.typ }

// Root returns the root struct of the document.
func (d *Document) Root() *Struct { return d.root }

// Get returns a top-level field.
func (d *Document) Get(name string) (Value, bool) { return d.root.Get(name) }

// Set stores a top-level field.
func (d *Document) Set(name string, v Value) error { return d.root.Set(name, v) }

// Dirty reports whether the document was modified since the last Clean.
func (d *Document) Dirty() bool { return d.dirty }

// MarkDirty flags the document as modified.
func (d *Document) MarkDirty() { d.dirty = true }

// Clean clears the modified flag.
func (d *Document) Clean() { d.dirty = false }

// Clone returns an independent copy of the document. The dirty flag is
// carried over.
func (d *Document) Clone() *Document {
	root, _ := d.root.Clone().(*Struct)
	return &Document{id: d.id, root: root, dirty: d.dirty}
}

// Equal reports whether both documents have the same ID and equal content.
// The dirty flag is ignored.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.id == o.id && d.root.Equal(o.root)
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	return fmt.Sprintf("%s(%s)%s", d.root.typ.name, d.id, d.root.String()[len(d.root.typ.name):])
}
