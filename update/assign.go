package update

import (
	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

const (
	assignCreateMissingPath uint8 = 1 << iota
	assignRemoveIfZero
)

// AssignOptions configures an Assign update.
type AssignOptions struct {
	// CreateMissingPath creates absent fields along the path. Default false.
	CreateMissingPath bool
	// RemoveIfZero removes the matched node instead of assigning a numeric
	// zero. Default false.
	RemoveIfZero bool
}

// Assign overwrites every node the path matches with its value.
type Assign struct {
	base
	value document.Value
	opts  AssignOptions
}

var (
	_ PathUpdate            = (*Assign)(nil)
	_ fieldpath.LeafCreator = (*Assign)(nil)
)

// NewAssign returns an update that overwrites the nodes at path with value.
//
// value must be assignable to the type declared at path; otherwise a
// *ConstructionError is returned. The value is cloned.
func NewAssign(repo schema.Repository, docType, path, where string, value document.Value, optFns ...func(o *AssignOptions)) (*Assign, error) {
	b, err := newBase(repo, OpAssign, docType, path, where)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, &ConstructionError{Op: OpAssign, Path: b.expr, Reason: "missing value"}
	}
	var opts AssignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	u := &Assign{base: b, value: value.Clone(), opts: opts}
	if err := u.checkCompatibility(repo); err != nil {
		return nil, err
	}
	return u, nil
}

// WithCreateMissingPath makes the update create absent fields along its path.
func WithCreateMissingPath() func(o *AssignOptions) {
	return func(o *AssignOptions) { o.CreateMissingPath = true }
}

// WithRemoveIfZero makes assigning a numeric zero remove the node instead.
func WithRemoveIfZero() func(o *AssignOptions) {
	return func(o *AssignOptions) { o.RemoveIfZero = true }
}

func (u *Assign) checkCompatibility(repo schema.Repository) error {
	if repo.IsAssignable(u.value.Type(), u.resulting) {
		return nil
	}
	return &ConstructionError{
		Op:        OpAssign,
		Path:      u.expr,
		Resulting: u.resulting.Name(),
		Payload:   u.value.TypeName(),
		Reason:    "value is not assignable to field",
	}
}

// Op implements PathUpdate.
func (u *Assign) Op() Op { return OpAssign }

// Value returns a copy of the assigned value.
func (u *Assign) Value() document.Value { return u.value.Clone() }

// Options returns the options the update was built with.
func (u *Assign) Options() AssignOptions { return u.opts }

// CreateMissingPath implements fieldpath.IteratorHandler.
func (u *Assign) CreateMissingPath() bool { return u.opts.CreateMissingPath }

// OnComplex implements fieldpath.IteratorHandler. A struct is assigned as a
// whole.
func (u *Assign) OnComplex(fieldpath.Content) bool { return false }

// DoModify implements fieldpath.IteratorHandler. It reports NotModified if
// the node already equals the value. The value is checked against the
// declared type, so a node under a field declared any may change its type
// but not its kind.
func (u *Assign) DoModify(node document.Value) (fieldpath.ModificationStatus, error) {
	if u.removesZero() {
		return fieldpath.Removed, nil
	}
	if node == nil || node.Kind() != u.value.Kind() {
		return fieldpath.NotModified, u.mismatch(OpAssign, node, nil)
	}
	if node.Equal(u.value) {
		return fieldpath.NotModified, nil
	}
	if err := document.AssignAs(u.resulting, node, u.value); err != nil {
		return fieldpath.NotModified, u.mismatch(OpAssign, node, err)
	}
	return fieldpath.Modified, nil
}

// CreateLeaf implements fieldpath.LeafCreator. The created field holds the
// value even if it equals the empty value of the declared type. A zero
// assigned with RemoveIfZero creates nothing.
func (u *Assign) CreateLeaf(declared *document.DataType) (document.Value, error) {
	if u.removesZero() {
		return nil, nil
	}
	node := declared.NewValue()
	if node == nil {
		return u.value.Clone(), nil
	}
	if err := document.AssignAs(declared, node, u.value); err != nil {
		return nil, u.mismatch(OpAssign, node, err)
	}
	return node, nil
}

func (u *Assign) removesZero() bool {
	if !u.opts.RemoveIfZero {
		return false
	}
	s, ok := document.AsScalar(u.value)
	return ok && s.IsZero()
}

// Equal implements PathUpdate.
func (u *Assign) Equal(other PathUpdate) bool {
	o, ok := other.(*Assign)
	return ok && u.base.equal(&o.base) && u.opts == o.opts && u.value.Equal(o.value)
}

// String implements PathUpdate.
func (u *Assign) String() string { return u.format(OpAssign, ", "+u.value.String()) }

func (u *Assign) flags() uint8 {
	var f uint8
	if u.opts.CreateMissingPath {
		f |= assignCreateMissingPath
	}
	if u.opts.RemoveIfZero {
		f |= assignRemoveIfZero
	}
	return f
}

func (u *Assign) encodePayload(c *wire.Cursor, v Version) error {
	if v >= FormatV3 {
		c.PutUint8(u.flags())
	} else if u.flags() != 0 {
		return versionError(v, "assign options", FormatV3)
	}
	return document.EncodeValue(c, u.resulting, u.value)
}

func decodeAssign(c *wire.Cursor, repo schema.Repository, b base, v Version) (*Assign, error) {
	var opts AssignOptions
	if v >= FormatV3 {
		flags, err := c.Uint8("assign flags")
		if err != nil {
			return nil, err
		}
		if flags&^(assignCreateMissingPath|assignRemoveIfZero) != 0 {
			return nil, c.Malformed("assign flags", "unknown flags 0x%02x", flags)
		}
		opts.CreateMissingPath = flags&assignCreateMissingPath != 0
		opts.RemoveIfZero = flags&assignRemoveIfZero != 0
	}
	value, err := document.DecodeValue(c, b.resulting, "assign value")
	if err != nil {
		return nil, err
	}
	u := &Assign{base: b, value: value, opts: opts}
	if err := u.checkCompatibility(repo); err != nil {
		return nil, err
	}
	return u, nil
}
