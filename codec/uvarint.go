package codec

import (
	"encoding/binary"

	"github.com/goeet/eet/errs"
)

// AppendUvarint appends the LEB128 encoding of v to buf and returns the
// extended slice. No other package in this module calls it: the
// dictionary's records and the chunk format's size field are
// fixed-width u32 values (PutUint32) per the wire layout.
func AppendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

// ReadUvarint decodes a LEB128 value from the start of buf, returning
// the value and the number of bytes consumed.
//
// Returns errs.ErrMalformedData if buf is too short or the varint
// overflows 64 bits.
func ReadUvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, errs.ErrMalformedData
	}

	return v, n, nil
}
