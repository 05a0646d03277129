package journal

import (
	"context"
	"fmt"
	"sort"
)

type segmentRef struct {
	name  string
	first uint64
}

func (j *Journal) segments(ctx context.Context) ([]segmentRef, error) {
	names, err := j.store.List(ctx, j.opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	segs := make([]segmentRef, 0, len(names))
	for _, name := range names {
		first, ok := parseSegmentName(j.opts.Prefix, name)
		if !ok {
			j.logger.Warn("ignoring unexpected blob in journal", "name", name)
			continue
		}
		segs = append(segs, segmentRef{name: name, first: first})
	}
	sort.Slice(segs, func(a, b int) bool { return segs[a].first < segs[b].first })
	return segs, nil
}

func (j *Journal) load(ctx context.Context, name string) ([]Entry, error) {
	data, err := j.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read segment %s: %w", name, err)
	}
	return decodeSegment(name, data)
}

// Replay calls fn for every persisted entry with a sequence number of at
// least from, in sequence order. Buffered entries are not replayed. Replay
// stops at the first error.
func (j *Journal) Replay(ctx context.Context, from uint64, fn func(e Entry) error) error {
	segs, err := j.segments(ctx)
	if err != nil {
		return err
	}

	replayed := 0
	for i, seg := range segs {
		if i+1 < len(segs) && segs[i+1].first <= from {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := j.load(ctx, seg.name)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Seq < from {
				continue
			}
			if err := fn(e); err != nil {
				return fmt.Errorf("replay entry %d: %w", e.Seq, err)
			}
			replayed++
		}
	}
	j.logger.Debug("journal replayed", "from", from, "entries", replayed)
	return nil
}

// Truncate deletes segments whose entries all have sequence numbers below
// before and returns how many were deleted. The newest segment is always
// kept.
func (j *Journal) Truncate(ctx context.Context, before uint64) (int, error) {
	segs, err := j.segments(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for i := 0; i+1 < len(segs) && segs[i+1].first <= before; i++ {
		if err := j.store.Delete(ctx, segs[i].name); err != nil {
			return deleted, fmt.Errorf("delete segment %s: %w", segs[i].name, err)
		}
		deleted++
	}
	return deleted, nil
}
