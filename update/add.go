package update

import (
	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

// Add appends its payload elements to every collection the path matches.
//
// Add is not idempotent: applying it twice appends the payload twice.
type Add struct {
	base
	values document.Collection
}

var (
	_ PathUpdate            = (*Add)(nil)
	_ fieldpath.LeafCreator = (*Add)(nil)
)

// NewAdd returns an update that appends values to the collection at path in
// documents of type docType.
//
// Every payload element must be assignable to the element type declared at
// path; otherwise a *ConstructionError is returned. Resolution failures are
// returned unchanged as *schema.ResolutionError. The payload is cloned.
func NewAdd(repo schema.Repository, docType, path, where string, values document.Collection) (*Add, error) {
	b, err := newBase(repo, OpAdd, docType, path, where)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, &ConstructionError{Op: OpAdd, Path: b.expr, Reason: "missing payload"}
	}
	u := &Add{base: b, values: values.Clone().(document.Collection)}
	if err := u.checkCompatibility(repo); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Add) checkCompatibility(repo schema.Repository) error {
	elem := elementType(u.resulting)
	if repo.IsAssignable(u.values.ElementType(), elem) {
		return nil
	}
	// A loosely typed payload (e.g. array<any>) is fine if every element fits.
	for i := range u.values.Len() {
		if v := u.values.At(i); !repo.IsAssignable(v.Type(), elem) {
			return &ConstructionError{
				Op:        OpAdd,
				Path:      u.expr,
				Resulting: u.resulting.Name(),
				Payload:   u.values.TypeName(),
				Reason:    "payload element " + v.TypeName() + " is not assignable to " + elem.Name(),
			}
		}
	}
	return nil
}

// Op implements PathUpdate.
func (u *Add) Op() Op { return OpAdd }

// Values returns a copy of the payload.
func (u *Add) Values() document.Collection { return u.values.Clone().(document.Collection) }

// CreateMissingPath implements fieldpath.IteratorHandler. Add creates absent
// fields along its path.
func (u *Add) CreateMissingPath() bool { return true }

// OnComplex implements fieldpath.IteratorHandler. Add never decomposes a
// struct into its fields.
func (u *Add) OnComplex(fieldpath.Content) bool { return false }

// DoModify implements fieldpath.IteratorHandler. It appends clones of the
// payload elements in payload order and reports Modified, also for an empty
// payload.
func (u *Add) DoModify(node document.Value) (fieldpath.ModificationStatus, error) {
	c, ok := document.AsCollection(node)
	if !ok {
		return fieldpath.NotModified, u.mismatch(OpAdd, node, nil)
	}
	for i := range u.values.Len() {
		if err := c.Add(u.values.At(i).Clone()); err != nil {
			if i > 0 {
				return fieldpath.Modified, u.mismatch(OpAdd, node, err)
			}
			return fieldpath.NotModified, u.mismatch(OpAdd, node, err)
		}
	}
	return fieldpath.Modified, nil
}

// CreateLeaf implements fieldpath.LeafCreator. It builds the collection
// holding the payload. Under a field declared any the collection takes the
// payload type.
func (u *Add) CreateLeaf(declared *document.DataType) (document.Value, error) {
	node := declared.NewValue()
	if node == nil {
		return u.values.Clone(), nil
	}
	if _, err := u.DoModify(node); err != nil {
		return nil, err
	}
	return node, nil
}

// Equal implements PathUpdate.
func (u *Add) Equal(other PathUpdate) bool {
	o, ok := other.(*Add)
	return ok && u.base.equal(&o.base) && u.values.Equal(o.values)
}

// String implements PathUpdate.
func (u *Add) String() string { return u.format(OpAdd, ", "+u.values.String()) }

func (u *Add) encodePayload(c *wire.Cursor, _ Version) error {
	elem := elementType(u.resulting)
	if u.values.Len() > wire.MaxVarint {
		return wire.ErrVarintOverflow
	}
	if err := c.PutVarint(uint32(u.values.Len())); err != nil { //nolint:gosec // bounded above
		return err
	}
	for i := range u.values.Len() {
		if err := document.EncodeValue(c, elem, u.values.At(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeAdd(c *wire.Cursor, repo schema.Repository, b base) (*Add, error) {
	payload, err := document.DecodeValue(c, document.ArrayOf(elementType(b.resulting)), "add payload")
	if err != nil {
		return nil, err
	}
	values, _ := document.AsCollection(payload)
	u := &Add{base: b, values: values}
	if err := u.checkCompatibility(repo); err != nil {
		return nil, err
	}
	return u, nil
}
