package image

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Lossy:    false,
		Width:    640,
		Height:   480,
		Alpha:    true,
		Compress: 5,
		Quality:  80,
	}

	buf := h.Bytes()
	require.Len(t, buf, HeaderSize)

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeaderLossyRoundTrip(t *testing.T) {
	h := Header{Lossy: true, Width: 100, Height: 100, Quality: 90}

	got, err := ParseHeader(h.Bytes())
	require.NoError(t, err)
	require.True(t, got.Lossy)
}

func TestParseHeaderConsumesOnlyHeaderBytes(t *testing.T) {
	h := Header{Width: 10, Height: 10}
	buf := append(h.Bytes(), []byte{1, 2, 3, 4, 5}...)

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(10), got.Width)
}

func TestParseHeaderRejectsTruncated(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestParseHeaderRejectsBadTag(t *testing.T) {
	buf := make([]byte, HeaderSize)
	_, err := ParseHeader(buf)
	require.Error(t, err)
}

func TestValidateDimensions(t *testing.T) {
	require.NoError(t, ValidateDimensions(1, 1))
	require.NoError(t, ValidateDimensions(8000, 8000))
	require.Error(t, ValidateDimensions(0, 10))
	require.Error(t, ValidateDimensions(10, 8001))
}
