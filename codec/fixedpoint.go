package codec

// Fixed-point values are stored as big-endian signed integers with an
// implicit binary point: fracBits of the integer's low-order bits are
// the fractional part. P32, P16 and P24 name the fractional width, per
// the wire tags TagF32P32 (32.32, 8 bytes), TagF16P16 (16.16, 4 bytes)
// and TagF8P24 (8.24, 4 bytes).

// PutFixed32P32 encodes f as a 32.32 fixed-point int64 at buf[0:8].
func PutFixed32P32(buf []byte, f float64) {
	PutUint64(buf, uint64(int64(f*(1<<32))))
}

// Fixed32P32 decodes a 32.32 fixed-point value from buf[0:8].
func Fixed32P32(buf []byte) float64 {
	return float64(int64(Uint64(buf))) / (1 << 32)
}

// PutFixed16P16 encodes f as a 16.16 fixed-point int32 at buf[0:4].
func PutFixed16P16(buf []byte, f float64) {
	PutUint32(buf, uint32(int32(f*(1<<16))))
}

// Fixed16P16 decodes a 16.16 fixed-point value from buf[0:4].
func Fixed16P16(buf []byte) float64 {
	return float64(int32(Uint32(buf))) / (1 << 16)
}

// PutFixed8P24 encodes f as an 8.24 fixed-point int32 at buf[0:4].
func PutFixed8P24(buf []byte, f float64) {
	PutUint32(buf, uint32(int32(f*(1<<24))))
}

// Fixed8P24 decodes an 8.24 fixed-point value from buf[0:4].
func Fixed8P24(buf []byte) float64 {
	return float64(int32(Uint32(buf))) / (1 << 24)
}
