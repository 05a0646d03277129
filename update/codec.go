package update

import (
	"errors"
	"fmt"

	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

// Version is an update wire format version.
type Version uint16

const (
	// FormatV1 carries the field path, the tag and the payload.
	FormatV1 Version = 1
	// FormatV2 adds the where-clause.
	FormatV2 Version = 2
	// FormatV3 adds the Assign flags byte.
	FormatV3 Version = 3

	// CurrentVersion is the version written by default.
	CurrentVersion = FormatV3
)

// Update record layout:
//
//	string  field path
//	string  where-clause            (FormatV2 and later)
//	uint8   tag                     (Op)
//	...     payload
//
// Add:    varint count, count values of the element type
// Assign: uint8 flags (FormatV3 and later), one value of the resulting type
// Remove: nothing
//
// Values are not self-describing: their layout is given by the type the
// field path resolves to.

func checkVersion(v Version) error {
	if v < FormatV1 || v > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	return nil
}

func versionError(v Version, what string, need Version) error {
	return fmt.Errorf("%w: %s need format version %d, have %d", ErrUnsupportedVersion, what, need, v)
}

// EncodeTo appends the wire form of u to c using format version v.
func EncodeTo(c *wire.Cursor, u PathUpdate, v Version) error {
	if err := checkVersion(v); err != nil {
		return err
	}
	if err := c.PutString(u.FieldPath()); err != nil {
		return fmt.Errorf("encode field path: %w", err)
	}
	if v >= FormatV2 {
		if err := c.PutString(u.Where()); err != nil {
			return fmt.Errorf("encode where-clause: %w", err)
		}
	} else if u.Where() != "" {
		return versionError(v, "where-clauses", FormatV2)
	}
	c.PutUint8(uint8(u.Op()))
	if err := u.encodePayload(c, v); err != nil {
		return fmt.Errorf("encode %s payload: %w", u.Op(), err)
	}
	return nil
}

// Encode returns the wire form of u using format version v.
func Encode(u PathUpdate, v Version) ([]byte, error) {
	c := wire.NewWriter(64)
	if err := EncodeTo(c, u, v); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// DecodeFrom reads one update for documents of type docType from c.
//
// The field path is resolved against repo and the payload is read with the
// resulting type. Resolution failures are returned unchanged. On any error
// no update is returned.
func DecodeFrom(c *wire.Cursor, repo schema.Repository, docType string, v Version) (PathUpdate, error) {
	if err := checkVersion(v); err != nil {
		return nil, err
	}
	at := c.Pos()
	expr, err := c.String("field path")
	if err != nil {
		return nil, err
	}
	var where string
	if v >= FormatV2 {
		if where, err = c.String("where-clause"); err != nil {
			return nil, err
		}
	}
	tagAt := c.Pos()
	tag, err := c.Uint8("update tag")
	if err != nil {
		return nil, err
	}
	op := Op(tag)
	if op < OpAdd || op > OpRemove {
		return nil, wire.MalformedAt("update tag", tagAt, "unknown update tag %d", tag)
	}

	b, err := newBase(repo, op, docType, expr, where)
	if err != nil {
		var ce *ConstructionError
		if errors.As(err, &ce) && errors.Is(err, fieldpath.ErrInvalidPath) {
			return nil, wire.MalformedAt("field path", at, "%v", ce.Err)
		}
		return nil, err
	}

	var u PathUpdate
	switch op {
	case OpAdd:
		add, err := decodeAdd(c, repo, b)
		if err != nil {
			return nil, err
		}
		u = add
	case OpAssign:
		assign, err := decodeAssign(c, repo, b, v)
		if err != nil {
			return nil, err
		}
		u = assign
	default:
		u = &Remove{base: b}
	}
	return u, nil
}

// Decode decodes an update that occupies all of data.
func Decode(repo schema.Repository, docType string, data []byte, v Version) (PathUpdate, error) {
	c := wire.NewReader(data)
	u, err := DecodeFrom(c, repo, docType, v)
	if err != nil {
		return nil, err
	}
	if err := c.Done("update"); err != nil {
		return nil, err
	}
	return u, nil
}
