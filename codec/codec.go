// Package codec implements the fixed-width and variable-width byte
// encodings shared by the rest of eet-go: chunk headers, directory
// entries, and the dictionary's blob offsets all go through here.
//
// The container wire format is always big-endian (network byte order),
// so unlike endian.EndianEngine this package never exposes an
// endianness choice — every function in it assumes
// encoding/binary.BigEndian.
package codec

import "encoding/binary"

// PutUint8 writes v at buf[0].
func PutUint8(buf []byte, v uint8) {
	buf[0] = v
}

// Uint8 reads a byte from buf[0].
func Uint8(buf []byte) uint8 {
	return buf[0]
}

// PutUint16 writes v to buf in big-endian order.
func PutUint16(buf []byte, v uint16) {
	binary.BigEndian.PutUint16(buf, v)
}

// Uint16 reads a big-endian uint16 from buf.
func Uint16(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf)
}

// PutUint32 writes v to buf in big-endian order.
func PutUint32(buf []byte, v uint32) {
	binary.BigEndian.PutUint32(buf, v)
}

// Uint32 reads a big-endian uint32 from buf.
func Uint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

// PutUint64 writes v to buf in big-endian order.
func PutUint64(buf []byte, v uint64) {
	binary.BigEndian.PutUint64(buf, v)
}

// Uint64 reads a big-endian uint64 from buf.
func Uint64(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

// AppendUint8/16/32/64 append the fixed-width big-endian encoding of v
// to buf and return the extended slice, mirroring
// encoding/binary.AppendUint*.
func AppendUint8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

func AppendUint16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func AppendUint32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}

func AppendUint64(buf []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(buf, v)
}
