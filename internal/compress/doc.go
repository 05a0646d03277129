// Package compress frames byte blocks with optional LZ4 or zstd
// compression. Encoders and decoders for zstd are pooled.
package compress
