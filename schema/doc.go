// Package schema holds document and struct type definitions and resolves
// field paths against them.
//
// Types are registered programmatically or loaded from YAML files:
//
//	r := schema.NewRegistry()
//	if err := r.LoadYAMLFile("music.yaml"); err != nil {
//		return err
//	}
//	t, err := r.Resolve("music", fieldpath.MustParse("items[*].tags"))
package schema
