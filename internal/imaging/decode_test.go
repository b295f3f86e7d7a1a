package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/image/bmp"
)

// encodeTestImage renders a solid-color image of the given size in the
// requested container format and returns it base64 encoded.
func encodeTestImage(t *testing.T, format string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeSupportedFormats(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		width      int
		height     int
		wantFormat Format
	}{
		{name: "jpeg", format: "jpeg", width: 100, height: 200, wantFormat: FormatJPEG},
		{name: "png", format: "png", width: 64, height: 48, wantFormat: FormatPNG},
		{name: "gif", format: "gif", width: 10, height: 10, wantFormat: FormatGIF},
		{name: "bmp", format: "bmp", width: 32, height: 16, wantFormat: FormatBMP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := encodeTestImage(t, tt.format, tt.width, tt.height)

			decoded, err := Decode(payload)
			require.NoError(t, err)
			require.NotNil(t, decoded.Pixels)

			assert.Equal(t, uint(tt.width), decoded.Descriptor.Width)
			assert.Equal(t, uint(tt.height), decoded.Descriptor.Height)
			assert.Equal(t, tt.wantFormat, decoded.Descriptor.Format)
			assert.NotZero(t, decoded.Descriptor.RawByteLen)
		})
	}
}

func TestDecodeDataURLPrefix(t *testing.T) {
	payload := "data:image/png;base64," + encodeTestImage(t, "png", 8, 8)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, decoded.Descriptor.Format)
	assert.Equal(t, uint(8), decoded.Descriptor.Width)
}

func TestDecodeInvalidPayloads(t *testing.T) {
	validPNG := encodeTestImage(t, "png", 4, 4)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty string", payload: ""},
		{name: "empty data URL", payload: "data:image/png;base64,"},
		{name: "data URL without comma", payload: "data:image/png;base64"},
		{name: "malformed base64", payload: "!!!not-base64!!!"},
		{name: "valid base64, not an image", payload: base64.StdEncoding.EncodeToString([]byte("just some text"))},
		{name: "truncated image", payload: validPNG[:len(validPNG)/4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.payload)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}
