// Package wire provides the bounds-checked byte cursor shared by the update
// and tensor codecs.
//
// # Encodings
//
//   - Varint: 1-4 bytes. The two high bits of the first byte hold the byte
//     count minus one (00=1, 01=2, 10=3, 11=4); the remaining 6, 14, 22 or 30
//     bits hold the value in big-endian order. The shortest form is always
//     written, so the encoded length is a function of the magnitude.
//   - String: varint length followed by the raw bytes.
//   - Fixed width: uint16/uint32/uint64/int64/float64 in big-endian order.
//
// Every read is checked against the remaining length before any bytes are
// consumed. A failed read leaves the cursor position unchanged and returns a
// *DecodeError naming the wire sub-field that under-ran.
package wire
