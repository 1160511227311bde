// Package compress implements the compression adapter behind the
// container format's compress directory flag: a thin wrapper around
// external compression libraries. The algorithm (format.CompressionType)
// is a per-Container setting and is not recorded on disk; the directory
// only marks which entries are compressed, so a reader must be set up
// with the same algorithm the writer used.
//
// # Architecture
//
// Three interfaces, composed the same way across every backend:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Backends
//
//   - NoOp (format.CompressionNone): returns the input unchanged.
//   - Zstd (format.CompressionZstd): klauspost/compress's pure-Go
//     zstd, pooled encoder/decoder. Best ratio, moderate speed — good
//     default for cold entries that are written once and read rarely.
//   - S2 (format.CompressionS2): klauspost/compress/s2, a Snappy
//     descendant. Fast in both directions, moderate ratio.
//   - LZ4 (format.CompressionLZ4): pierrec/lz4, block mode. Very fast
//     decompression, useful for entries read on a hot path.
//
// GetCodec/CreateCodec resolve a format.CompressionType to the matching
// built-in Codec; container.Container resolves its configured algorithm
// once, uses it in Flush for every entry written with compression, and
// uses the same codec in Load to decompress every entry whose directory
// compress flag is set.
package compress
