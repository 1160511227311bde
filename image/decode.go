package image

// DecodeInto copies the sub-rectangle (srcX, srcY, w, h) of pixels
// (an imgWidth x imgHeight ARGB buffer) into dst, a buffer
// of rows rowStride pixels wide. The copy is clipped to the
// intersection of the requested rectangle and the image bounds, so an
// out-of-range rectangle is silently narrowed rather than rejected.
func DecodeInto(dst []uint32, rowStride int, pixels []uint32, imgWidth, imgHeight int, srcX, srcY, w, h int) {
	x0, y0, x1, y1 := clip(srcX, srcY, w, h, imgWidth, imgHeight)

	for y := y0; y < y1; y++ {
		srcRow := y * imgWidth
		dstRow := (y - srcY) * rowStride

		for x := x0; x < x1; x++ {
			dst[dstRow+(x-srcX)] = pixels[srcRow+x]
		}
	}
}

// clip returns the intersection of rectangle (srcX, srcY, w, h) with
// the image bounds [0, imgWidth) x [0, imgHeight), as (x0, y0, x1, y1)
// half-open bounds.
func clip(srcX, srcY, w, h, imgWidth, imgHeight int) (x0, y0, x1, y1 int) {
	x0 = max(srcX, 0)
	y0 = max(srcY, 0)
	x1 = min(srcX+w, imgWidth)
	y1 = min(srcY+h, imgHeight)

	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}

	return x0, y0, x1, y1
}
