package image

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeIntoFullImage(t *testing.T) {
	pixels := []uint32{1, 2, 3, 4, 5, 6} // 3x2
	dst := make([]uint32, 6)

	DecodeInto(dst, 3, pixels, 3, 2, 0, 0, 3, 2)
	require.Equal(t, pixels, dst)
}

func TestDecodeIntoSubRectangle(t *testing.T) {
	// 4x4 image, values = row*10+col
	pixels := make([]uint32, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pixels[y*4+x] = uint32(y*10 + x)
		}
	}

	dst := make([]uint32, 2*2)
	DecodeInto(dst, 2, pixels, 4, 4, 1, 1, 2, 2)

	require.Equal(t, []uint32{11, 12, 21, 22}, dst)
}

func TestDecodeIntoClipsOutOfRangeRectangle(t *testing.T) {
	pixels := make([]uint32, 16)
	for i := range pixels {
		pixels[i] = uint32(i)
	}

	dst := make([]uint32, 4*4)
	for i := range dst {
		dst[i] = 0xFFFFFFFF
	}

	// Requested rectangle runs off the bottom-right edge.
	DecodeInto(dst, 4, pixels, 4, 4, 2, 2, 4, 4)

	require.Equal(t, uint32(10), dst[0])
	require.Equal(t, uint32(11), dst[1])
	require.Equal(t, uint32(0xFFFFFFFF), dst[2])
}
