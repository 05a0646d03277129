package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/tensor"
)

var (
	// ErrUnknownDocumentType is returned for document types that are not registered.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrUnknownType is returned for type expressions naming no known type.
	ErrUnknownType = errors.New("unknown type")

	// ErrDuplicateType is returned when a type name is registered twice.
	ErrDuplicateType = errors.New("duplicate type")
)

// ResolutionError reports a path that does not resolve against a document type.
type ResolutionError struct {
	DocumentType string
	Path         string
	Err          error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s in %s: %v", e.Path, e.DocumentType, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Repository resolves field paths to their declared types.
type Repository interface {
	// DocumentType returns the named document type.
	DocumentType(name string) (*document.DataType, error)
	// Resolve returns the type declared at path within the document type.
	// Failures are *ResolutionError.
	Resolve(docType string, path fieldpath.Path) (*document.DataType, error)
	// IsAssignable reports whether payload values may be stored where
	// resulting is declared.
	IsAssignable(payload, resulting *document.DataType) bool
}

// Registry is an in-memory Repository. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	docs    map[string]*document.DataType
	structs map[string]*document.DataType
}

var _ Repository = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		docs:    make(map[string]*document.DataType),
		structs: make(map[string]*document.DataType),
	}
}

// RegisterDocument registers a document type. Document types are struct types.
// Struct types used by its fields are registered as well.
func (r *Registry) RegisterDocument(t *document.DataType) error {
	if t == nil || t.Kind() != document.TypeStruct {
		return fmt.Errorf("%w: document type %s is not a struct type", document.ErrInvalidType, t.Name())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[t.Name()]; ok {
		return fmt.Errorf("%w: document %s", ErrDuplicateType, t.Name())
	}
	r.docs[t.Name()] = t
	r.collectStructs(t)
	return nil
}

// RegisterStruct registers a named struct type for use in type expressions.
func (r *Registry) RegisterStruct(t *document.DataType) error {
	if t == nil || t.Kind() != document.TypeStruct {
		return fmt.Errorf("%w: %s is not a struct type", document.ErrInvalidType, t.Name())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.structs[t.Name()]; ok && prev != t {
		return fmt.Errorf("%w: struct %s", ErrDuplicateType, t.Name())
	}
	r.collectStructs(t)
	return nil
}

func (r *Registry) collectStructs(t *document.DataType) {
	switch t.Kind() {
	case document.TypeArray:
		r.collectStructs(t.Elem())
	case document.TypeStruct:
		if _, ok := r.structs[t.Name()]; ok {
			return
		}
		r.structs[t.Name()] = t
		for _, f := range t.Fields() {
			r.collectStructs(f.Type)
		}
	}
}

// DocumentType implements Repository.
func (r *Registry) DocumentType(name string) (*document.DataType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentType, name)
	}
	return t, nil
}

// DocumentTypes returns the registered document type names in sorted order.
func (r *Registry) DocumentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Repository.
func (r *Registry) Resolve(docType string, path fieldpath.Path) (*document.DataType, error) {
	t, err := r.DocumentType(docType)
	if err != nil {
		return nil, &ResolutionError{DocumentType: docType, Path: path.String(), Err: err}
	}
	rt, err := fieldpath.TypeAt(t, path)
	if err != nil {
		return nil, &ResolutionError{DocumentType: docType, Path: path.String(), Err: err}
	}
	return rt, nil
}

// IsAssignable implements Repository.
func (r *Registry) IsAssignable(payload, resulting *document.DataType) bool {
	return document.IsAssignable(payload, resulting)
}

// ParseType parses a type expression: string, int, double, bool, any,
// array<T>, tensor(...) or the name of a registered struct type.
func (r *Registry) ParseType(expr string) (*document.DataType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return parseType(expr, r.structs)
}

func parseType(expr string, structs map[string]*document.DataType) (*document.DataType, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "string":
		return document.String, nil
	case "int", "long":
		return document.Int, nil
	case "double", "float":
		return document.Double, nil
	case "bool":
		return document.Bool, nil
	case "any":
		return document.Any, nil
	}
	if inner, ok := strings.CutPrefix(expr, "array<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, expr)
		}
		elem, err := parseType(inner, structs)
		if err != nil {
			return nil, err
		}
		return document.ArrayOf(elem), nil
	}
	if t, ok := structs[expr]; ok {
		return t, nil
	}
	if strings.HasPrefix(expr, "tensor") {
		tt, err := tensor.ParseType(expr)
		if err != nil {
			return nil, err
		}
		return document.TensorOf(tt), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, expr)
}
