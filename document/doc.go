// Package document implements typed document values.
//
// A document is a named struct type plus an identifier. Its fields form a
// tree of values, each exposing exactly one capability:
//
//   - Scalar: string, int, double, bool or tensor leaves
//   - Collection: ordered element lists (Array)
//   - Struct: named fields declared by a struct type
//
// Callers dispatch on Value.Kind and obtain capabilities with AsScalar,
// AsCollection and AsStruct. Clone is deep and Equal is structural.
//
// Values are encoded without type tags (EncodeValue / DecodeValue): the
// reader supplies the declared type, usually resolved from a schema.
package document
