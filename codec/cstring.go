package codec

import (
	"bytes"

	"github.com/goeet/eet/errs"
)

// AppendCString appends s followed by a single NUL byte to buf and
// returns the extended slice. s must not itself contain a NUL byte;
// callers (schema field names, directory entry names) are expected to
// validate that before calling in, since this package has no use for
// returning an error from an append helper.
func AppendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

// ReadCString reads a NUL-terminated string starting at buf[0] and
// returns the decoded string along with the number of bytes consumed,
// including the terminator.
//
// Returns errs.ErrMalformedData if buf contains no NUL byte.
func ReadCString(buf []byte) (string, int, error) {
	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		return "", 0, errs.ErrMalformedData
	}

	return string(buf[:i]), i + 1, nil
}
