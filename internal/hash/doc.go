// Package hash provides the checksum used to protect journal records.
//
// All checksums use CRC32-Castagnoli (CRC32C), which Go computes with
// hardware instructions on x86 (SSE4.2) and ARM.
package hash
