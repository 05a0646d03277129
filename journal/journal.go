package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/docupdate/blobstore"
	"github.com/hupe1980/docupdate/update"
)

// Journal is an append-only log of encoded updates stored as segments in a
// blobstore.Store.
//
// Appended entries are buffered in memory until Flush, Close or the
// SegmentEntries threshold writes them as one immutable segment. A Journal
// is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	store   blobstore.Store
	opts    Options
	logger  *slog.Logger
	pending []Entry
	nextSeq uint64
	closed  bool
}

// Open opens the journal stored under the configured prefix. Sequence
// numbers continue after the last persisted entry.
//
// A prefix has a single writer. Two journals appending under one prefix
// assign the same sequence numbers; Flush detects a segment written by the
// other one and fails with ErrSequenceConflict instead of overwriting it,
// but the check is not atomic with the write.
func Open(ctx context.Context, store blobstore.Store, optFns ...func(o *Options)) (*Journal, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	j := &Journal{
		store:   store,
		opts:    opts,
		logger:  logger,
		nextSeq: 1,
	}

	segs, err := j.segments(ctx)
	if err != nil {
		return nil, err
	}
	if len(segs) > 0 {
		last := segs[len(segs)-1]
		entries, err := j.load(ctx, last.name)
		if err != nil {
			return nil, err
		}
		j.nextSeq = last.first
		if n := len(entries); n > 0 {
			j.nextSeq = entries[n-1].Seq + 1
		}
	}
	j.logger.Debug("journal opened", "prefix", opts.Prefix, "segments", len(segs), "next_seq", j.nextSeq)
	return j, nil
}

// Append buffers an entry and returns its sequence number.
func (j *Journal) Append(ctx context.Context, e Entry) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return 0, ErrClosed
	}
	e.Seq = j.nextSeq
	e.Update = append([]byte(nil), e.Update...)
	j.nextSeq++
	j.pending = append(j.pending, e)

	if j.opts.SegmentEntries > 0 && len(j.pending) >= j.opts.SegmentEntries {
		if err := j.flushLocked(ctx); err != nil {
			return e.Seq, err
		}
	}
	return e.Seq, nil
}

// AppendUpdate encodes u in the configured format version and appends it
// for the document docID.
func (j *Journal) AppendUpdate(ctx context.Context, docID string, u update.PathUpdate) (uint64, error) {
	data, err := update.Encode(u, j.opts.Version)
	if err != nil {
		return 0, err
	}
	return j.Append(ctx, Entry{
		DocumentType: u.DocumentType(),
		DocumentID:   docID,
		Version:      j.opts.Version,
		Update:       data,
	})
}

// Pending returns the number of buffered entries.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush writes buffered entries as a new segment. On failure the entries
// stay buffered. See Open for concurrent writers.
func (j *Journal) Flush(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked(ctx)
}

func (j *Journal) flushLocked(ctx context.Context) error {
	if len(j.pending) == 0 {
		return nil
	}
	data, err := encodeSegment(j.pending, j.opts.Compression)
	if err != nil {
		return err
	}
	first := j.pending[0].Seq
	segs, err := j.segments(ctx)
	if err != nil {
		return err
	}
	if n := len(segs); n > 0 && segs[n-1].first >= first {
		return fmt.Errorf("%w: segment %s exists, pending entries start at %d", ErrSequenceConflict, segs[n-1].name, first)
	}
	name := segmentName(j.opts.Prefix, first)
	if err := j.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write segment %s: %w", name, err)
	}
	j.logger.Debug("journal segment written", "segment", name, "entries", len(j.pending), "bytes", len(data))
	j.pending = j.pending[:0]
	return nil
}

// Close flushes buffered entries. Further appends fail with ErrClosed.
func (j *Journal) Close(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	if err := j.flushLocked(ctx); err != nil {
		return err
	}
	j.closed = true
	return nil
}
