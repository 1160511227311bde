// Package data is the structured-record codec: it walks a
// schema.Descriptor against a Go value and produces or consumes the
// container's chunk wire format.
//
//	CHUNK := type:u32  size:u32  name:cstring  payload[size]
//
// type is a primitive format.Tag or a group format.GroupTag; name
// identifies the field within the enclosing record by exact match
// against the descriptor. Readers that don't recognize a field skip
// its chunk (size makes that possible without understanding payload);
// fields missing from the wire stay at their zero value. This is how
// the format tolerates schema evolution in both directions.
package data

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
)

// chunk is one decoded wire record.
type chunk struct {
	Tag     uint32
	Name    string
	Payload []byte
}

// AppendChunk exposes the chunk writer to packages that assemble raw
// encoded bytes without going through a schema.Descriptor — currently
// dump.Undump, reconstructing a chunk tree from its text form.
func AppendChunk(buf []byte, tag uint32, name string, payload []byte) []byte {
	return appendChunk(buf, tag, name, payload)
}

func appendChunk(buf []byte, tag uint32, name string, payload []byte) []byte {
	buf = codec.AppendUint32(buf, tag)
	buf = codec.AppendUint32(buf, uint32(len(payload)))
	buf = codec.AppendCString(buf, name)

	return append(buf, payload...)
}

// ReadChunk exposes the chunk parser to packages that walk raw encoded
// bytes without a schema.Descriptor — currently dump.Dump, rendering a
// chunk tree to text without knowing the record shape ahead of time.
func ReadChunk(data []byte) (tag uint32, name string, payload []byte, n int, err error) {
	c, n, err := readChunk(data)
	if err != nil {
		return 0, "", nil, 0, err
	}

	return c.Tag, c.Name, c.Payload, n, nil
}

// readChunk parses one chunk from the start of data and returns it
// along with the number of bytes it occupies.
func readChunk(data []byte) (chunk, int, error) {
	if len(data) < 8 {
		return chunk{}, 0, errs.ErrMalformedData
	}

	tag := codec.Uint32(data[0:4])
	size := codec.Uint32(data[4:8])

	name, n, err := codec.ReadCString(data[8:])
	if err != nil {
		return chunk{}, 0, err
	}

	headerLen := 8 + n
	end := headerLen + int(size)

	if end < headerLen || len(data) < end {
		return chunk{}, 0, errs.ErrMalformedData
	}

	return chunk{Tag: tag, Name: name, Payload: data[headerLen:end]}, end, nil
}
