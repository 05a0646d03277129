package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidType is returned for malformed type definitions.
	ErrInvalidType = errors.New("invalid data type")

	// ErrIncompatibleType is returned when a value does not conform to the
	// declared type of the place it is stored in.
	ErrIncompatibleType = errors.New("incompatible type")

	// ErrUnknownField is returned for fields not declared by a struct type.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotSelfDescribing is returned when a value declared as Any is
	// binary encoded or decoded.
	ErrNotSelfDescribing = errors.New("value of type any is not self-describing")

	// ErrIndexOutOfRange is returned for invalid collection positions.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// TypeError reports a value that does not conform to its declared type.
//
// It matches ErrIncompatibleType via errors.Is.
type TypeError struct {
	// Declared is the name of the type declared at the target.
	Declared string
	// Actual is the name of the type of the offending value.
	Actual string
	// Target optionally names the field or collection.
	Target string
}

func (e *TypeError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("incompatible type: cannot store %s in %s (declared %s)", e.Actual, e.Target, e.Declared)
	}
	return fmt.Sprintf("incompatible type: cannot store %s where %s is declared", e.Actual, e.Declared)
}

func (e *TypeError) Unwrap() error { return ErrIncompatibleType }

func typeError(declared *DataType, v Value, target string) error {
	return &TypeError{Declared: declared.Name(), Actual: typeName(v), Target: target}
}

func typeName(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.TypeName()
}
