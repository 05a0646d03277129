package update

import (
	"fmt"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
)

// PredicateCompiler turns where-clauses into predicates.
type PredicateCompiler interface {
	Compile(clause string) (fieldpath.Predicate, error)
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Predicates compiles where-clauses. Required for updates that have one.
	Predicates PredicateCompiler
}

// WithPredicateCompiler sets the compiler used for where-clauses.
func WithPredicateCompiler(pc PredicateCompiler) func(o *ApplyOptions) {
	return func(o *ApplyOptions) { o.Predicates = pc }
}

// Apply applies u to doc in place.
//
// Every node the update's path matches (and its where-clause accepts) is
// handed to the update. The document is marked dirty if anything was
// modified or removed. The first error stops the update; nodes modified
// before it stay modified.
func Apply(doc *document.Document, u PathUpdate, optFns ...func(o *ApplyOptions)) (fieldpath.ModificationStatus, error) {
	var opts ApplyOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if doc.Type().Name() != u.DocumentType() {
		return fieldpath.NotModified, fmt.Errorf("%w: %s update applied to %s document %s",
			ErrDocumentType, u.DocumentType(), doc.Type().Name(), doc.ID())
	}

	var pred fieldpath.Predicate
	if clause := u.Where(); clause != "" {
		if opts.Predicates == nil {
			return fieldpath.NotModified, ErrNoPredicateCompiler
		}
		p, err := opts.Predicates.Compile(clause)
		if err != nil {
			return fieldpath.NotModified, fmt.Errorf("compile where-clause %q: %w", clause, err)
		}
		pred = p
	}

	s, err := fieldpath.Iterate(doc.Root(), u.Path(), pred, u)
	if s.Changed() {
		doc.MarkDirty()
	}
	return s, err
}
