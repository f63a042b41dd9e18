package codec

import (
	"context"
	"image"
	"image/png"
	"imgshrink/internal/core/domain"
	"io"
	"math"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
)

// FallbackMIMEType is produced when no encoder is registered for the requested type.
const FallbackMIMEType = "image/png"

type Encoder interface {
	// MIMEType returns the type of the encoded output.
	MIMEType() string
	// Encode writes img to w. Encoders without a quality setting ignore quality.
	Encode(ctx context.Context, w io.Writer, img image.Image, quality domain.Quality) error
}

// imagingEncoder encodes through imaging.Encode.
type imagingEncoder struct {
	mimeType string
	format   imaging.Format
	options  func(quality domain.Quality) []imaging.EncodeOption
}

func (e *imagingEncoder) MIMEType() string {
	return e.mimeType
}

func (e *imagingEncoder) Encode(_ context.Context, w io.Writer, img image.Image, quality domain.Quality) error {
	var opts []imaging.EncodeOption
	if e.options != nil {
		opts = e.options(quality)
	}

	return imaging.Encode(w, img, e.format, opts...)
}

// JPEGQuality maps a quality factor onto the 1-100 scale of the JPEG encoder. Values are not clamped here; the
// encoder treats anything below 1 as 1 and above 100 as 100.
func JPEGQuality(quality domain.Quality) int {
	return int(math.Round(float64(quality) * 100))
}

func builtinEncoders() []Encoder {
	return []Encoder{
		&imagingEncoder{mimeType: "image/jpeg", format: imaging.JPEG,
			options: func(q domain.Quality) []imaging.EncodeOption {
				return []imaging.EncodeOption{imaging.JPEGQuality(JPEGQuality(q))}
			}},
		&imagingEncoder{mimeType: "image/png", format: imaging.PNG,
			options: func(_ domain.Quality) []imaging.EncodeOption {
				return []imaging.EncodeOption{imaging.PNGCompressionLevel(png.BestCompression)}
			}},
		&imagingEncoder{mimeType: "image/gif", format: imaging.GIF,
			options: func(_ domain.Quality) []imaging.EncodeOption {
				return []imaging.EncodeOption{imaging.GIFNumColors(256)}
			}},
		&imagingEncoder{mimeType: "image/bmp", format: imaging.BMP},
		&imagingEncoder{mimeType: "image/tiff", format: imaging.TIFF},
	}
}

var mimeAliases = map[string]string{
	"image/jpg":      "image/jpeg",
	"image/pjpeg":    "image/jpeg",
	"image/x-png":    "image/png",
	"image/x-ms-bmp": "image/bmp",
	"image/x-bmp":    "image/bmp",
	"image/tif":      "image/tiff",
}

// NormalizeMIMEType lowercases mimeType, drops parameters and resolves common aliases.
func NormalizeMIMEType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	if alias, ok := mimeAliases[mediaType]; ok {
		return alias
	}

	return mediaType
}
