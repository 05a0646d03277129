package update

import (
	"errors"
	"fmt"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

// Op identifies an update variant. The value is the wire tag.
type Op uint8

const (
	OpAdd    Op = 1
	OpAssign Op = 2
	OpRemove Op = 3
)

// String returns the string representation of the Op.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpAssign:
		return "assign"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// PathUpdate is a path-addressed mutation of a document.
//
// A PathUpdate is immutable once built. It acts as the IteratorHandler of
// its own traversal and may be applied to many documents, also
// concurrently.
type PathUpdate interface {
	fieldpath.IteratorHandler

	// Op returns the variant.
	Op() Op
	// DocumentType returns the name of the document type the update targets.
	DocumentType() string
	// FieldPath returns the field path expression.
	FieldPath() string
	// Path returns the parsed field path.
	Path() fieldpath.Path
	// Where returns the where-clause, or "" if the update applies to every
	// matched node.
	Where() string
	// ResultingType returns the type declared at the field path.
	ResultingType() *document.DataType
	// Equal reports whether both updates are the same variant with equal
	// base fields and payloads.
	Equal(other PathUpdate) bool
	String() string

	encodePayload(c *wire.Cursor, v Version) error
}

// base holds the fields shared by all variants.
type base struct {
	docType   string
	expr      string
	path      fieldpath.Path
	where     string
	resulting *document.DataType
}

func newBase(repo schema.Repository, op Op, docType, expr, where string) (base, error) {
	path, err := fieldpath.Parse(expr)
	if err != nil {
		return base{}, &ConstructionError{Op: op, Path: expr, Reason: "invalid field path", Err: err}
	}
	resulting, err := repo.Resolve(docType, path)
	if err != nil {
		return base{}, err
	}
	return base{docType: docType, expr: path.String(), path: path, where: where, resulting: resulting}, nil
}

func (b *base) DocumentType() string { return b.docType }

func (b *base) FieldPath() string { return b.expr }

func (b *base) Path() fieldpath.Path { return b.path }

func (b *base) Where() string { return b.where }

func (b *base) ResultingType() *document.DataType { return b.resulting }

func (b *base) equal(o *base) bool {
	return b.docType == o.docType && b.expr == o.expr && b.where == o.where && b.resulting.Equal(o.resulting)
}

func (b *base) mismatch(op Op, node document.Value, err error) error {
	actual := "<nil>"
	if node != nil {
		actual = node.TypeName()
	}
	var te *document.TypeError
	if errors.As(err, &te) {
		actual = te.Actual
	}
	return &TypeMismatchError{Op: op, Path: b.expr, Declared: b.resulting.Name(), Actual: actual, Err: err}
}

func (b *base) format(op Op, payload string) string {
	if b.where == "" {
		return fmt.Sprintf("%s(%s%s)", op, b.expr, payload)
	}
	return fmt.Sprintf("%s(%s where %q%s)", op, b.expr, b.where, payload)
}

// elementType returns the type of the values Add inserts at a field of
// type t: the element type for collections, t itself otherwise.
func elementType(t *document.DataType) *document.DataType {
	if t.Kind() == document.TypeArray {
		return t.Elem()
	}
	return t
}
