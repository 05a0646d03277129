package journal

import (
	"errors"
	"log/slog"

	"github.com/hupe1980/docupdate/internal/compress"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/update"
)

var (
	// ErrCorruptSegment is returned when a stored segment fails validation.
	ErrCorruptSegment = errors.New("corrupt journal segment")

	// ErrIncompatibleVersion is returned for segments written in an unknown
	// segment format.
	ErrIncompatibleVersion = errors.New("incompatible journal segment version")

	// ErrClosed is returned when appending to a closed journal.
	ErrClosed = errors.New("journal closed")

	// ErrSequenceConflict is returned by Flush when another writer stored a
	// segment at or after the first pending sequence number.
	ErrSequenceConflict = errors.New("journal sequence conflict")
)

// Entry is one journaled update.
type Entry struct {
	// Seq is assigned by the journal on append, starting at 1.
	Seq          uint64
	DocumentType string
	DocumentID   string
	// Version is the wire format version Update is encoded in.
	Version update.Version
	// Update is the encoded update record.
	Update []byte
}

// Decode decodes the update carried by the entry.
func (e Entry) Decode(repo schema.Repository) (update.PathUpdate, error) {
	return update.Decode(repo, e.DocumentType, e.Update, e.Version)
}

// Options configures a Journal.
type Options struct {
	// Prefix is prepended to segment names in the blob store.
	Prefix string

	// Compression selects the block compression of new segments.
	Compression compress.Type

	// SegmentEntries flushes a segment once this many entries are
	// buffered. Zero disables automatic flushing.
	SegmentEntries int

	// Version is the format AppendUpdate encodes updates in.
	Version update.Version

	// Logger receives flush and replay events.
	Logger *slog.Logger
}

// DefaultOptions contains the default journal options.
var DefaultOptions = Options{
	Prefix:         "journal/",
	Compression:    compress.Zstd,
	SegmentEntries: 1024,
	Version:        update.CurrentVersion,
}
