// Package where evaluates where-clauses with github.com/expr-lang/expr.
//
//	c := where.NewCompiler()
//	u, _ := update.NewRemove(repo, "music", "items[*]", `value.name == "draft"`)
//	_, err := update.Apply(doc, u, update.WithPredicateCompiler(c))
package where
