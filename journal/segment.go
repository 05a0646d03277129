package journal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/docupdate/internal/compress"
	"github.com/hupe1980/docupdate/internal/hash"
	"github.com/hupe1980/docupdate/update"
	"github.com/hupe1980/docupdate/wire"
)

// Segment layout:
//
//	magic "DUJ1" | version u16 | compression u8 | entries u32 | block
//
// The block holds the records, each framed as
//
//	varint length | record | crc32c(record) u32
//
// and a record is
//
//	seq u64 | document type string | document id string | version u16 | update bytes
var segmentMagic = [4]byte{'D', 'U', 'J', '1'}

const (
	segmentVersion    = uint16(1)
	segmentHeaderSize = 11
	segmentSuffix     = ".seg"
)

func segmentName(prefix string, firstSeq uint64) string {
	return fmt.Sprintf("%s%020d%s", prefix, firstSeq, segmentSuffix)
}

// parseSegmentName returns the first sequence number encoded in name.
func parseSegmentName(prefix, name string) (uint64, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, segmentSuffix) {
		return 0, false
	}
	seq, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimPrefix(name, prefix), segmentSuffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

func encodeRecord(c *wire.Cursor, e Entry) error {
	c.PutUint64(e.Seq)
	if err := c.PutString(e.DocumentType); err != nil {
		return err
	}
	if err := c.PutString(e.DocumentID); err != nil {
		return err
	}
	c.PutUint16(uint16(e.Version))
	return c.PutBytes(e.Update)
}

func encodeSegment(entries []Entry, ct compress.Type) ([]byte, error) {
	records := wire.NewWriter(256 * len(entries))
	for _, e := range entries {
		rec := wire.NewWriter(len(e.Update) + len(e.DocumentType) + len(e.DocumentID) + 32)
		if err := encodeRecord(rec, e); err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", e.Seq, err)
		}
		if err := records.PutBytes(rec.Bytes()); err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", e.Seq, err)
		}
		records.PutUint32(hash.CRC32C(rec.Bytes()))
	}

	block, err := compress.Block(records.Bytes(), ct)
	if err != nil {
		return nil, err
	}

	out := wire.NewWriter(segmentHeaderSize + len(block))
	out.PutRaw(segmentMagic[:])
	out.PutUint16(segmentVersion)
	out.PutUint8(uint8(ct))
	out.PutUint32(uint32(len(entries)))
	out.PutRaw(block)
	return out.Bytes(), nil
}

func decodeSegment(name string, data []byte) ([]Entry, error) {
	c := wire.NewReader(data)
	magic, err := c.Next(len(segmentMagic), "magic")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	if string(magic) != string(segmentMagic[:]) {
		return nil, fmt.Errorf("%w %s: invalid magic %q", ErrCorruptSegment, name, magic)
	}
	version, err := c.Uint16("segment version")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	if version != segmentVersion {
		return nil, fmt.Errorf("%w %s: version %d (expected %d)", ErrIncompatibleVersion, name, version, segmentVersion)
	}
	ct, err := c.Uint8("compression")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	count, err := c.Uint32("entry count")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}

	block, n, err := compress.Unblock(data[c.Pos():], compress.Type(ct))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	if c.Pos()+n != len(data) {
		return nil, fmt.Errorf("%w %s: %d trailing bytes", ErrCorruptSegment, name, len(data)-c.Pos()-n)
	}

	records := wire.NewReader(block)
	// Every record takes at least a length byte, its seq and its checksum.
	if err := records.RequireElems(uint64(count), 13, "records"); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	entries := make([]Entry, 0, count)
	for i := range count {
		e, err := decodeFramedRecord(records)
		if err != nil {
			return nil, fmt.Errorf("%w %s: entry %d: %w", ErrCorruptSegment, name, i, err)
		}
		entries = append(entries, e)
	}
	if err := records.Done("records"); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSegment, name, err)
	}
	return entries, nil
}

func decodeFramedRecord(c *wire.Cursor) (Entry, error) {
	raw, err := c.LengthPrefixed("record")
	if err != nil {
		return Entry{}, err
	}
	sum, err := c.Uint32("checksum")
	if err != nil {
		return Entry{}, err
	}
	if got := hash.CRC32C(raw); got != sum {
		return Entry{}, fmt.Errorf("checksum mismatch: got %08x, want %08x", got, sum)
	}

	r := wire.NewReader(raw)
	var e Entry
	if e.Seq, err = r.Uint64("seq"); err != nil {
		return Entry{}, err
	}
	if e.DocumentType, err = r.String("document type"); err != nil {
		return Entry{}, err
	}
	if e.DocumentID, err = r.String("document id"); err != nil {
		return Entry{}, err
	}
	v, err := r.Uint16("update version")
	if err != nil {
		return Entry{}, err
	}
	e.Version = update.Version(v)
	body, err := r.LengthPrefixed("update")
	if err != nil {
		return Entry{}, err
	}
	e.Update = append([]byte(nil), body...)
	return e, r.Done("record")
}
