// Package section defines the fixed-layout structs that make up a
// container's on-disk framing: the file header, directory entries, the
// string dictionary's records, and the optional signature trailer.
// Each type exposes Bytes() []byte and a parser (a Parse method, or
// ParseSignatureTrailer for the trailer) over the
// always-big-endian wire layout; none of it varies endianness, unlike
// a general-purpose binary struct library.
package section

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// HeaderSize is the fixed size of the container header.
const HeaderSize = 12

// Header is the first HeaderSize bytes of a container: the magic
// number and the entry/dictionary record counts.
type Header struct {
	EntryCount uint32
	DictCount  uint32
}

// Bytes serializes h to exactly HeaderSize bytes.
func (h Header) Bytes() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = codec.AppendUint32(buf, format.MagicContainer)
	buf = codec.AppendUint32(buf, h.EntryCount)
	buf = codec.AppendUint32(buf, h.DictCount)

	return buf
}

// Parse reads a Header from data, validating the magic number.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if codec.Uint32(data[0:4]) != format.MagicContainer {
		return errs.ErrInvalidMagic
	}

	h.EntryCount = codec.Uint32(data[4:8])
	h.DictCount = codec.Uint32(data[8:12])

	return nil
}
