package fieldpath

import (
	"github.com/hupe1980/docupdate/document"
)

// ModificationStatus is the outcome of one DoModify call.
type ModificationStatus uint8

const (
	// NotModified means the node was left as it was.
	NotModified ModificationStatus = iota
	// Modified means the node was changed in place.
	Modified
	// Removed asks the engine to excise the node from its parent.
	Removed
)

// String returns the string representation of the status.
func (s ModificationStatus) String() string {
	switch s {
	case Modified:
		return "MODIFIED"
	case Removed:
		return "REMOVED"
	default:
		return "NOT_MODIFIED"
	}
}

// Changed reports whether the status is Modified or Removed.
func (s ModificationStatus) Changed() bool { return s != NotModified }

// Content describes a complex (struct) node the path ends on.
type Content struct {
	// Path is the concrete path of the node.
	Path Path
	// Value is the struct node.
	Value document.Value
}

// IteratorHandler receives the nodes matched by Iterate.
type IteratorHandler interface {
	// DoModify is called once per matched node with exclusive access to it.
	// Removing the node from its parent is the engine's job; handlers
	// return Removed instead.
	DoModify(node document.Value) (ModificationStatus, error)

	// CreateMissingPath reports whether absent struct fields along the path
	// are synthesized from their declared types.
	CreateMissingPath() bool

	// OnComplex is called when the path ends on a struct. Returning true
	// calls DoModify on each of its set fields instead of the struct itself.
	OnComplex(c Content) bool
}

// LeafCreator is implemented by handlers that build an absent leaf field
// themselves.
//
// When CreateMissingPath is true and the path ends on an absent struct
// field, Iterate calls CreateLeaf with the declared type of that field
// instead of creating an empty value and calling DoModify. A non-nil value
// is stored and reported as Modified; a nil value leaves the field absent.
type LeafCreator interface {
	CreateLeaf(declared *document.DataType) (document.Value, error)
}

// Location is a node matched by a path, as seen by a Predicate.
type Location struct {
	// Path is the concrete path with wildcards replaced by positions.
	Path Path
	// Value is the matched node.
	Value document.Value
	// Root is the root of the traversal.
	Root document.Value
}

// Predicate restricts which matched nodes are handed to the handler.
type Predicate interface {
	Match(loc Location) (bool, error)
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(loc Location) (bool, error)

// Match implements Predicate.
func (f PredicateFunc) Match(loc Location) (bool, error) { return f(loc) }
