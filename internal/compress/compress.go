package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type selects the block compression algorithm.
type Type uint8

const (
	// None stores blocks as is.
	None Type = 0
	// LZ4 uses LZ4 block compression.
	LZ4 Type = 1
	// Zstd uses zstd with the default encoder level.
	Zstd Type = 2
)

// String returns the name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(t))
	}
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	switch s {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	}
	return None, fmt.Errorf("unknown compression %q", s)
}

// MaxBlockSize bounds the uncompressed size a block header may announce.
const MaxBlockSize = 64 << 20

// HeaderSize is the size of the block header.
//
// Format: [uncompressed uint32][compressed uint32][data...], big-endian.
// A compressed size of 0 marks a block stored uncompressed.
const HeaderSize = 8

var (
	// ErrCorrupt is returned for blocks that cannot be decompressed.
	ErrCorrupt = errors.New("corrupt compressed block")

	// ErrUnknownType is returned for unsupported compression types.
	ErrUnknownType = errors.New("unknown compression type")
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
}

// Block compresses data into a framed block. If compression does not save
// at least a tenth of the input, the block is stored uncompressed.
func Block(data []byte, t Type) ([]byte, error) {
	if len(data) > MaxBlockSize {
		return nil, fmt.Errorf("block of %d bytes exceeds %d", len(data), MaxBlockSize)
	}

	var (
		compressed []byte
		err        error
	)
	switch t {
	case None:
	case LZ4:
		compressed, err = lz4Block(data)
	case Zstd:
		compressed, err = zstdBlock(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		compressed = nil
	}

	body := data
	if compressed != nil {
		body = compressed
	}
	out := make([]byte, HeaderSize+len(body))
	binary.BigEndian.PutUint32(out[0:], uint32(len(data)))
	binary.BigEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[HeaderSize:], body)
	return out, nil
}

func lz4Block(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible
	return dst[:n], nil
}

func zstdBlock(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

// Unblock decompresses a block written by Block with the same Type. It
// returns the uncompressed data and the number of bytes of src consumed.
func Unblock(src []byte, t Type) ([]byte, int, error) {
	if len(src) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, need header of %d", ErrCorrupt, len(src), HeaderSize)
	}
	rawSize := binary.BigEndian.Uint32(src[0:])
	packedSize := binary.BigEndian.Uint32(src[4:])
	if rawSize > MaxBlockSize {
		return nil, 0, fmt.Errorf("%w: block announces %d bytes", ErrCorrupt, rawSize)
	}

	if packedSize == 0 {
		end := HeaderSize + int(rawSize)
		if len(src) < end {
			return nil, 0, fmt.Errorf("%w: stored block truncated", ErrCorrupt)
		}
		return src[HeaderSize:end], end, nil
	}

	end := HeaderSize + int(packedSize)
	if packedSize > MaxBlockSize || len(src) < end {
		return nil, 0, fmt.Errorf("%w: compressed block truncated", ErrCorrupt)
	}
	packed := src[HeaderSize:end]

	switch t {
	case LZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(packed, out)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, end, nil
	case Zstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, 0, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(packed, make([]byte, 0, rawSize))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != rawSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, end, nil
	case None:
		return nil, 0, fmt.Errorf("%w: compressed block with compression none", ErrCorrupt)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
}
