// Package fieldpath parses field paths and walks document value trees
// along them.
//
// A path is a field name followed by ".field", "[N]" and "[*]" steps:
//
//	tags
//	items[*].tags
//	attributes.color
//
// Iterate resolves a path against a value tree and calls an
// IteratorHandler once per matched node. The handler reports what it did
// through a ModificationStatus; the engine performs any structural changes
// (creating missing fields, excising removed nodes) around the callback.
package fieldpath
