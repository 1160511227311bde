// Package image implements the container's embedded image sub-codec:
// a 28-byte self-describing header followed by either a lossless
// ARGB-run-length body or a lossy JPEG body.
package image

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// HeaderSize is the fixed size of an image payload's header; Header
// reads and writes exactly this many bytes, never touching the body.
const HeaderSize = 28

// MinDimension and MaxDimension bound Width and Height. ParseHeader
// enforces them via ValidateDimensions when reading a header;
// Header.Bytes and the body encoders do not check them.
const (
	MinDimension = 1
	MaxDimension = 8000
)

// Header is the self-describing prefix of an image entry payload.
type Header struct {
	Lossy    bool
	Width    uint32
	Height   uint32
	Alpha    bool
	Compress uint32 // 0..9
	Quality  uint32 // 0..100
}

// tag returns the 4-byte discriminator written at Header offset 0.
func (h Header) tag() uint32 {
	if h.Lossy {
		return format.ImageTagLossy
	}

	return format.ImageTagLossless
}

// Bytes serializes h to exactly HeaderSize bytes.
func (h Header) Bytes() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = codec.AppendUint32(buf, h.tag())
	buf = codec.AppendUint32(buf, h.Width)
	buf = codec.AppendUint32(buf, h.Height)
	buf = codec.AppendUint32(buf, boolToU32(h.Alpha))
	buf = codec.AppendUint32(buf, h.Compress)
	buf = codec.AppendUint32(buf, h.Quality)
	buf = codec.AppendUint32(buf, boolToU32(h.Lossy))

	return buf
}

// ParseHeader reads the first HeaderSize bytes of data as a Header.
// It consumes only those bytes; the body is left for DecodeRLE/DecodeJPEG.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrMalformedData
	}

	tag := codec.Uint32(data[0:4])

	var h Header
	switch tag {
	case format.ImageTagLossless, format.ImageTagLossy:
		h.Lossy = tag == format.ImageTagLossy
	default:
		return Header{}, errs.ErrMalformedData
	}

	h.Width = codec.Uint32(data[4:8])
	h.Height = codec.Uint32(data[8:12])
	h.Alpha = codec.Uint32(data[12:16]) != 0
	h.Compress = codec.Uint32(data[16:20])
	h.Quality = codec.Uint32(data[20:24])
	h.Lossy = codec.Uint32(data[24:28]) != 0

	if err := ValidateDimensions(h.Width, h.Height); err != nil {
		return Header{}, err
	}

	return h, nil
}

// ValidateDimensions rejects widths/heights outside [MinDimension, MaxDimension].
func ValidateDimensions(width, height uint32) error {
	if width < MinDimension || width > MaxDimension || height < MinDimension || height > MaxDimension {
		return errs.ErrInvalidImageSize
	}

	return nil
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}

	return 0
}
