// Package dump renders an encoded chunk tree (as produced by
// data.Encode) to deterministic indented text, and parses that text
// back into identical bytes. It works directly off the wire chunk
// stream — type:u32 size:u32 name:cstring payload[size] — so it needs
// no schema.Descriptor to walk a tree it's never seen before, the same
// way a hex dump tool doesn't need to know a file's format to show its
// bytes.
package dump

import (
	"strconv"
	"strings"

	"github.com/goeet/eet/data"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// Dump renders encoded — one outer chunk, as data.Encode produces — as
// text: one line per chunk, `kind "name" value` for a scalar, `kind
// "name" {` followed by indented children and a closing `}` for a
// group. dictionary resolves Inlined_string chunks to their literal
// value; pass nil if encoded carries none.
func Dump(encoded []byte, dictionary *dict.Dictionary) (string, error) {
	tag, name, payload, n, err := data.ReadChunk(encoded)
	if err != nil {
		return "", err
	}

	if n != len(encoded) {
		return "", errs.ErrMalformedData
	}

	var buf strings.Builder
	if err := dumpChunk(&buf, 0, tag, name, payload, dictionary); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func dumpChunk(buf *strings.Builder, depth int, tag uint32, name string, payload []byte, dictionary *dict.Dictionary) error {
	if depth > format.RecursionLimit {
		return errs.ErrMalformedData
	}

	indent := strings.Repeat("  ", depth)

	if tag >= uint32(format.GroupUnknown) {
		group := format.GroupTag(tag)

		buf.WriteString(indent)
		buf.WriteString(group.String())
		buf.WriteByte(' ')
		buf.WriteString(strconv.Quote(name))
		buf.WriteString(" {\n")

		if err := dumpChunks(buf, depth+1, payload, dictionary); err != nil {
			return err
		}

		buf.WriteString(indent)
		buf.WriteString("}\n")

		return nil
	}

	value, err := formatValue(format.Tag(tag), payload, dictionary)
	if err != nil {
		return err
	}

	buf.WriteString(indent)
	buf.WriteString(format.Tag(tag).String())
	buf.WriteByte(' ')
	buf.WriteString(strconv.Quote(name))

	if format.Tag(tag) != format.TagNull {
		buf.WriteByte(' ')
		buf.WriteString(value)
	}

	buf.WriteByte('\n')

	return nil
}

func dumpChunks(buf *strings.Builder, depth int, body []byte, dictionary *dict.Dictionary) error {
	for len(body) > 0 {
		tag, name, payload, n, err := data.ReadChunk(body)
		if err != nil {
			return err
		}

		if err := dumpChunk(buf, depth, tag, name, payload, dictionary); err != nil {
			return err
		}

		body = body[n:]
	}

	return nil
}
