package section

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
)

// DictRecordSize is the fixed on-disk size of one dictionary record.
const DictRecordSize = 5 * 4

// DictRecord is the on-disk form of one string dictionary entry.
type DictRecord struct {
	Hash   uint32
	Offset uint32
	Size   uint32
	Prev   uint32
	Next   uint32
}

// Bytes serializes r to exactly DictRecordSize bytes.
func (r DictRecord) Bytes() []byte {
	buf := make([]byte, 0, DictRecordSize)
	buf = codec.AppendUint32(buf, r.Hash)
	buf = codec.AppendUint32(buf, r.Offset)
	buf = codec.AppendUint32(buf, r.Size)
	buf = codec.AppendUint32(buf, r.Prev)
	buf = codec.AppendUint32(buf, r.Next)

	return buf
}

// Parse reads a DictRecord from data.
func (r *DictRecord) Parse(data []byte) error {
	if len(data) < DictRecordSize {
		return errs.ErrInvalidHeaderSize
	}

	r.Hash = codec.Uint32(data[0:4])
	r.Offset = codec.Uint32(data[4:8])
	r.Size = codec.Uint32(data[8:12])
	r.Prev = codec.Uint32(data[12:16])
	r.Next = codec.Uint32(data[16:20])

	return nil
}
