// Package docupdate applies path-addressed updates to structured documents.
//
// A document is a typed tree of structs, arrays and scalars described by a
// schema. An update names a field path such as "tracks[*].tags", an
// optional where-clause and one of three operations:
//
//   - Add appends elements to collections, creating missing fields.
//   - Assign overwrites values.
//   - Remove deletes values.
//
// # Quick Start
//
//	repo := schema.NewRegistry()
//	_ = repo.RegisterDocument(musicType)
//
//	u := docupdate.New(repo)
//	add, _ := u.Add("music", "tags", "", document.Strings("rock"))
//	status, err := u.Apply(ctx, doc, add)
//
// # Where-clauses
//
// Where-clauses are expr-lang expressions evaluated per matched node, with
// the variables value, doc and path:
//
//	rm, _ := u.Remove("music", "tracks[*]", `value.length < 30`)
//
// # Wire Format
//
// Updates encode to a compact, schema-driven binary record. Decoding needs
// the same schema:
//
//	data, _ := u.Encode(add)
//	again, _ := u.Decode("music", data, update.CurrentVersion)
//
// # Durability
//
// With WithJournal, every update that changes a document is appended to a
// journal stored in a blobstore (local disk, MinIO or S3) and can be
// replayed after a restart:
//
//	j, _ := journal.Open(ctx, blobstore.NewLocalStore("./journal"))
//	u := docupdate.New(repo, docupdate.WithJournal(j))
//	...
//	_ = u.Flush(ctx)
//	n, err := u.Replay(ctx, 0, lookup)
//
// # Batches
//
// ApplyAll applies one update to many documents concurrently and reports
// the outcome per document as roaring bitmaps.
package docupdate
