// Package journal records encoded updates in an append-only log.
//
// Entries are grouped into immutable segments that are written to a
// blobstore.Store, optionally compressed with LZ4 or zstd. Each record
// carries a CRC32C checksum, so a damaged segment is reported with
// ErrCorruptSegment instead of being replayed.
//
//	j, err := journal.Open(ctx, blobstore.NewLocalStore(dir))
//	if err != nil {
//		return err
//	}
//	seq, err := j.AppendUpdate(ctx, "id:music:1", u)
//	...
//	err = j.Replay(ctx, 0, func(e journal.Entry) error {
//		u, err := e.Decode(repo)
//		...
//	})
package journal
