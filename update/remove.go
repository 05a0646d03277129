package update

import (
	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

// Remove deletes every node the path matches: struct fields are cleared and
// collection elements are excised.
type Remove struct {
	base
}

var _ PathUpdate = (*Remove)(nil)

// NewRemove returns an update that removes the nodes at path.
func NewRemove(repo schema.Repository, docType, path, where string) (*Remove, error) {
	b, err := newBase(repo, OpRemove, docType, path, where)
	if err != nil {
		return nil, err
	}
	return &Remove{base: b}, nil
}

// Op implements PathUpdate.
func (u *Remove) Op() Op { return OpRemove }

// CreateMissingPath implements fieldpath.IteratorHandler. Nothing is created
// only to be removed.
func (u *Remove) CreateMissingPath() bool { return false }

// OnComplex implements fieldpath.IteratorHandler.
func (u *Remove) OnComplex(fieldpath.Content) bool { return false }

// DoModify implements fieldpath.IteratorHandler.
func (u *Remove) DoModify(document.Value) (fieldpath.ModificationStatus, error) {
	return fieldpath.Removed, nil
}

// Equal implements PathUpdate.
func (u *Remove) Equal(other PathUpdate) bool {
	o, ok := other.(*Remove)
	return ok && u.base.equal(&o.base)
}

// String implements PathUpdate.
func (u *Remove) String() string { return u.format(OpRemove, "") }

func (u *Remove) encodePayload(*wire.Cursor, Version) error { return nil }
