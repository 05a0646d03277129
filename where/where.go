package where

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/internal/cache"
)

// DefaultCacheSize is the number of compiled clauses kept by default.
const DefaultCacheSize = 256

// Options configures a Compiler.
type Options struct {
	// CacheSize bounds the number of compiled clauses kept. Zero disables
	// caching.
	CacheSize int
	// Functions are made available to clauses under their map key.
	Functions map[string]func(params ...any) (any, error)
}

// DefaultOptions contains the default Compiler options.
var DefaultOptions = Options{
	CacheSize: DefaultCacheSize,
}

// Compiler compiles where-clauses into fieldpath predicates.
//
// Clauses are boolean expr-lang expressions over three variables:
//
//	value  the matched node as plain Go values (string, int64, float64,
//	       bool, []any, map[string]any)
//	doc    the root of the traversal, likewise converted
//	path   the concrete path of the matched node, e.g. "items[2]"
//
// Compiled programs are cached by clause text. A Compiler is safe for
// concurrent use.
type Compiler struct {
	opts     Options
	programs *cache.LRU[string, *vm.Program]
}

// NewCompiler returns a Compiler.
func NewCompiler(optFns ...func(o *Options)) *Compiler {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Compiler{opts: opts, programs: cache.NewLRU[string, *vm.Program](opts.CacheSize)}
}

// Compile returns a predicate evaluating clause.
func (c *Compiler) Compile(clause string) (fieldpath.Predicate, error) {
	program, err := c.program(clause)
	if err != nil {
		return nil, err
	}
	return &predicate{clause: clause, program: program}, nil
}

// Stats returns the number of cache hits and misses.
func (c *Compiler) Stats() (hits, misses int64) { return c.programs.Stats() }

func (c *Compiler) program(clause string) (*vm.Program, error) {
	if p, ok := c.programs.Get(clause); ok {
		return p, nil
	}
	exprOpts := []expr.Option{expr.AsBool(), expr.AllowUndefinedVariables()}
	for name, fn := range c.opts.Functions {
		exprOpts = append(exprOpts, expr.Function(name, fn))
	}
	p, err := expr.Compile(clause, exprOpts...)
	if err != nil {
		return nil, fmt.Errorf("compile where-clause %q: %w", clause, err)
	}
	c.programs.Set(clause, p)
	return p, nil
}

type predicate struct {
	clause  string
	program *vm.Program
}

// Match implements fieldpath.Predicate.
func (p *predicate) Match(loc fieldpath.Location) (bool, error) {
	env := map[string]any{
		"value": document.ToAny(loc.Value),
		"doc":   document.ToAny(loc.Root),
		"path":  loc.Path.String(),
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate where-clause %q at %s: %w", p.clause, loc.Path, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
