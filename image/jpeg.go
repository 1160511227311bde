package image

import (
	"bytes"
	goimage "image"
	"image/color"
	"image/jpeg"

	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
)

// EncodeJPEG encodes pixels (width*height ARGB, row-major) as a
// length-prefixed JPEG color plane and, when alpha is true, a second
// length-prefixed JPEG encoding the alpha channel as a gray plane.
func EncodeJPEG(pixels []uint32, width, height int, quality int, alpha bool) ([]byte, error) {
	colorPlane, err := encodeColorPlane(pixels, width, height, quality)
	if err != nil {
		return nil, err
	}

	buf := codec.AppendUint32(nil, uint32(len(colorPlane)))
	buf = append(buf, colorPlane...)

	if alpha {
		alphaPlane, err := encodeAlphaPlane(pixels, width, height, quality)
		if err != nil {
			return nil, err
		}

		buf = codec.AppendUint32(buf, uint32(len(alphaPlane)))
		buf = append(buf, alphaPlane...)
	}

	return buf, nil
}

// DecodeJPEG reverses EncodeJPEG, returning width*height ARGB pixels.
func DecodeJPEG(body []byte, width, height int, alpha bool) ([]uint32, error) {
	colorPlane, rest, err := readLengthPrefixed(body)
	if err != nil {
		return nil, err
	}

	img, err := jpeg.Decode(bytes.NewReader(colorPlane))
	if err != nil {
		return nil, errs.ErrMalformedData
	}

	pixels := make([]uint32, width*height)
	bounds := img.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = 0xFF000000 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
		}
	}

	if alpha {
		alphaPlane, _, err := readLengthPrefixed(rest)
		if err != nil {
			return nil, err
		}

		aimg, err := jpeg.Decode(bytes.NewReader(alphaPlane))
		if err != nil {
			return nil, errs.ErrMalformedData
		}

		abounds := aimg.Bounds()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				_, _, _, a := aimg.At(abounds.Min.X+x, abounds.Min.Y+y).RGBA()
				pixels[y*width+x] = pixels[y*width+x]&0x00FFFFFF | uint32(a>>8)<<24
			}
		}
	}

	return pixels, nil
}

func readLengthPrefixed(buf []byte) ([]byte, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, errs.ErrMalformedData
	}

	n := int(codec.Uint32(buf[0:4]))
	if len(buf) < 4+n {
		return nil, nil, errs.ErrMalformedData
	}

	return buf[4 : 4+n], buf[4+n:], nil
}

func encodeColorPlane(pixels []uint32, width, height, quality int) ([]byte, error) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			img.Set(x, y, color.NRGBA{
				R: byte(p >> 16),
				G: byte(p >> 8),
				B: byte(p),
				A: 0xFF,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeAlphaPlane(pixels []uint32, width, height, quality int) ([]byte, error) {
	img := goimage.NewGray(goimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: byte(pixels[y*width+x] >> 24)})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
