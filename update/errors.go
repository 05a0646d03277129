package update

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is returned when an update cannot be built from its
	// arguments.
	ErrConstruction = errors.New("invalid update")

	// ErrTypeMismatch is returned when a matched node lacks the capability
	// an update requires.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedVersion is returned for format versions that cannot
	// carry an update.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrNoPredicateCompiler is returned when an update with a where-clause
	// is applied without a PredicateCompiler.
	ErrNoPredicateCompiler = errors.New("where-clause requires a predicate compiler")

	// ErrDocumentType is returned when an update is applied to a document of
	// another type.
	ErrDocumentType = errors.New("document type mismatch")
)

// ConstructionError reports an update rejected when it was built, before
// any document was touched.
//
// It matches ErrConstruction, and the cause if any, via errors.Is.
type ConstructionError struct {
	Op        Op
	Path      string
	Resulting string
	Payload   string
	Reason    string
	Err       error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Reason)
	if e.Payload != "" || e.Resulting != "" {
		msg += fmt.Sprintf(" (payload %s, field %s)", e.Payload, e.Resulting)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstructionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConstruction}
	}
	return []error{ErrConstruction, e.Err}
}

// TypeMismatchError reports a matched node an update cannot modify.
//
// It matches ErrTypeMismatch via errors.Is.
type TypeMismatchError struct {
	Op Op
	// Path is the field path of the update.
	Path string
	// Declared is the declared type of the field.
	Declared string
	// Actual is the type of the node found.
	Actual string
	Err    error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("%s %s: type mismatch: cannot %s %s node (field declared %s)", e.Op, e.Path, e.Op, e.Actual, e.Declared)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTypeMismatch}
	}
	return []error{ErrTypeMismatch, e.Err}
}
