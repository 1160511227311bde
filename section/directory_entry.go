package section

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// fixedEntrySize is the size of a DirectoryEntry excluding its
// variable-length Name.
const fixedEntrySize = 5 * 4

// DirectoryEntry describes one stored entry: its location in the file,
// its size before and after decompression, and the flags recording how
// its payload is encoded.
type DirectoryEntry struct {
	Offset         uint32
	StoredSize     uint32
	DecompressedSz uint32
	Flags          uint32
	Name           string
}

func (e DirectoryEntry) Compressed() bool { return e.Flags&format.FlagCompress != 0 }
func (e DirectoryEntry) Ciphered() bool   { return e.Flags&format.FlagCipher != 0 }
func (e DirectoryEntry) Alias() bool      { return e.Flags&format.FlagAlias != 0 }

// Bytes serializes e as offset, stored_size, decompressed_size,
// name_size, flags, then the exact name bytes.
func (e DirectoryEntry) Bytes() []byte {
	buf := make([]byte, 0, fixedEntrySize+len(e.Name))
	buf = codec.AppendUint32(buf, e.Offset)
	buf = codec.AppendUint32(buf, e.StoredSize)
	buf = codec.AppendUint32(buf, e.DecompressedSz)
	buf = codec.AppendUint32(buf, uint32(len(e.Name)))
	buf = codec.AppendUint32(buf, e.Flags)
	buf = append(buf, e.Name...)

	return buf
}

// Parse reads a DirectoryEntry from the start of data, returning the
// number of bytes consumed.
func (e *DirectoryEntry) Parse(data []byte) (int, error) {
	if len(data) < fixedEntrySize {
		return 0, errs.ErrInvalidHeaderSize
	}

	e.Offset = codec.Uint32(data[0:4])
	e.StoredSize = codec.Uint32(data[4:8])
	e.DecompressedSz = codec.Uint32(data[8:12])
	nameSize := codec.Uint32(data[12:16])
	e.Flags = codec.Uint32(data[16:20])

	end := fixedEntrySize + int(nameSize)
	if len(data) < end {
		return 0, errs.ErrMalformedData
	}

	e.Name = string(data[fixedEntrySize:end])

	return end, nil
}
