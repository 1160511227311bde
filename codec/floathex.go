package codec

import (
	"math"
	"strconv"

	"github.com/goeet/eet/errs"
)

func floatFromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// rawFloatDiscriminator marks a raw 8-byte big-endian IEEE-754 double
// following the byte, rather than a hex-float string. It occupies the
// byte where AppendFloatHex writes its length prefix, and can never be
// mistaken for that prefix because strconv.AppendFloat's 'x' form is
// never empty.
const rawFloatDiscriminator = 0x00

// AppendFloatHex appends a length-prefixed hex-float encoding of f to
// buf: a single byte holding the string length, followed by
// strconv.AppendFloat(nil, f, 'x', -1, 64) — Go's %a-style hex-float
// form, exact and shorter than decimal for arbitrary doubles.
func AppendFloatHex(buf []byte, f float64) []byte {
	s := strconv.AppendFloat(nil, f, 'x', -1, 64)
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// ReadFloatHex decodes a float encoded by AppendFloatHex, or the raw
// 8-byte big-endian IEEE-754 form a writer may fall back to for values
// strconv can't round-trip through a hex string, and returns the value
// and the number of bytes consumed.
//
// The first byte disambiguates the two forms: rawFloatDiscriminator
// (0x00) introduces a raw 8-byte word, any other value is the length
// of the hex-float string that follows.
func ReadFloatHex(buf []byte) (float64, int, error) {
	if len(buf) < 1 {
		return 0, 0, errs.ErrMalformedData
	}

	if buf[0] == rawFloatDiscriminator {
		if len(buf) < 9 {
			return 0, 0, errs.ErrMalformedData
		}

		bits := Uint64(buf[1:9])
		return floatFromBits(bits), 9, nil
	}

	n := int(buf[0])
	if len(buf) < 1+n {
		return 0, 0, errs.ErrMalformedData
	}

	f, err := strconv.ParseFloat(string(buf[1:1+n]), 64)
	if err != nil {
		return 0, 0, errs.ErrMalformedData
	}

	return f, 1 + n, nil
}
