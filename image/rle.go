package image

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
)

// maxRunLength is the largest run EncodeRLE will emit in one
// {count, pixel} pair; longer runs of identical pixels are split.
const maxRunLength = 255

// EncodeRLE run-length encodes pixels (width*height 32-bit ARGB values,
// row-major) as a sequence of {count byte, pixel uint32} pairs.
func EncodeRLE(pixels []uint32) []byte {
	buf := make([]byte, 0, len(pixels)*2)

	i := 0
	for i < len(pixels) {
		run := 1
		for run < maxRunLength && i+run < len(pixels) && pixels[i+run] == pixels[i] {
			run++
		}

		buf = append(buf, byte(run))
		buf = codec.AppendUint32(buf, pixels[i])
		i += run
	}

	return buf
}

// DecodeRLE reverses EncodeRLE, reconstructing exactly width*height
// pixels scanline-linearly from body.
func DecodeRLE(body []byte, width, height uint32) ([]uint32, error) {
	want := int(width) * int(height)
	pixels := make([]uint32, 0, want)

	for len(body) > 0 {
		if len(body) < 5 {
			return nil, errs.ErrMalformedData
		}

		count := int(body[0])
		pixel := codec.Uint32(body[1:5])
		body = body[5:]

		if count == 0 || len(pixels)+count > want {
			return nil, errs.ErrMalformedData
		}

		for k := 0; k < count; k++ {
			pixels = append(pixels, pixel)
		}
	}

	if len(pixels) != want {
		return nil, errs.ErrMalformedData
	}

	return pixels, nil
}
