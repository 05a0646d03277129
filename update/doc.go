// Package update implements path-addressed document updates.
//
// Three variants share a field path, an optional where-clause and the type
// the path resolves to:
//
//   - Add appends elements to collections and creates missing fields.
//   - Assign overwrites values.
//   - Remove deletes values.
//
// Updates are validated against the schema when they are built. Each
// update is the fieldpath.IteratorHandler of its own traversal:
//
//	u, err := update.NewAdd(repo, "music", "tags", "", document.Strings("a", "b"))
//	if err != nil {
//		return err
//	}
//	status, err := update.Apply(doc, u)
//
// Updates are encoded with Encode and decoded with Decode. Decoding is
// schema-driven: payload values carry no type information, so the reader
// needs the repository and the document type.
package update
