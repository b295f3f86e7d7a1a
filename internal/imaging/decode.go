package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	// Register the supported container formats with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned for any payload that cannot be turned into
// a decoded image: malformed base64, empty data, an unsupported container
// or truncated image bytes. Callers should treat it as a client-input
// error and match it with errors.Is.
var ErrInvalidImage = errors.New("invalid image data")

// Format identifies the container format of a decoded image.
type Format string

const (
	FormatJPEG    Format = "JPEG"
	FormatPNG     Format = "PNG"
	FormatGIF     Format = "GIF"
	FormatBMP     Format = "BMP"
	FormatWEBP    Format = "WEBP"
	FormatUnknown Format = "UNKNOWN"
)

// formatNames maps the registered stdlib/x-image decoder names to Format.
var formatNames = map[string]Format{
	"jpeg": FormatJPEG,
	"png":  FormatPNG,
	"gif":  FormatGIF,
	"bmp":  FormatBMP,
	"webp": FormatWEBP,
}

// ImageDescriptor is the metadata retained about an analyzed image once
// the raw bytes are discarded.
type ImageDescriptor struct {
	Width      uint   `json:"width"`
	Height     uint   `json:"height"`
	Format     Format `json:"format"`
	RawByteLen uint   `json:"raw_byte_len"`
}

// DecodedImage pairs the fully decoded pixel data with its descriptor.
// The pixel data lives only for the duration of the request; nothing
// downstream is allowed to persist it.
type DecodedImage struct {
	Pixels     image.Image
	Descriptor ImageDescriptor
}

// Decode turns a base64 image payload into a DecodedImage. The payload
// may be a bare base64 string or a data URL ("data:image/png;base64,...");
// the data-URL prefix is stripped before decoding.
//
// Decoding runs two passes over the same byte buffer: a structural pass
// (image.DecodeConfig) that validates the container and extracts
// dimensions and format without consuming pixel data, then a full parse
// that yields the pixels needed for re-encoding. The config pass leaves
// its reader partially consumed, so the full parse starts from a fresh
// reader over the same bytes.
func Decode(payload string) (*DecodedImage, error) {
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		_, rest, found := strings.Cut(payload, ",")
		if !found {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		encoded = rest
	}

	if strings.TrimSpace(encoded) == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64: %v", ErrInvalidImage, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	cfg, formatName, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized image format: %v", ErrInvalidImage, err)
	}

	pixels, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt image data: %v", ErrInvalidImage, err)
	}

	format, ok := formatNames[formatName]
	if !ok {
		format = FormatUnknown
	}

	return &DecodedImage{
		Pixels: pixels,
		Descriptor: ImageDescriptor{
			Width:      uint(cfg.Width),
			Height:     uint(cfg.Height),
			Format:     format,
			RawByteLen: uint(len(raw)),
		},
	}, nil
}
