package codec

import (
	"testing"

	"imgshrink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagickEncoderWebP(t *testing.T) {
	encoders, err := MagickEncoders("image/webp")
	if err != nil {
		t.Skip("ImageMagick not installed")
	}

	require.Len(t, encoders, 1)
	assert.Equal(t, "image/webp", encoders[0].MIMEType())

	p := NewPipeline(WithEncoder(encoders[0]))
	src := jpegSource(t)
	src.MIMEType = "image/webp"

	res, err := p.Transcode(t.Context(), src, 0.5)
	if err != nil {
		t.Skipf("ImageMagick without webp delegate: %v", err)
	}

	assert.Equal(t, "image/webp", res.MIMEType)
	require.Greater(t, len(res.Data), 12)
	assert.Equal(t, "RIFF", string(res.Data[:4]))
	assert.Equal(t, "WEBP", string(res.Data[8:12]))
}

func TestMagickEncodersRejectsNonImageType(t *testing.T) {
	if _, err := findMagick(); err != nil {
		t.Skip("ImageMagick not installed")
	}

	_, err := MagickEncoders("application/pdf")
	require.Error(t, err)
}

func TestMagickQualityArgument(t *testing.T) {
	assert.Equal(t, 42, JPEGQuality(domain.Quality(0.42)))
}
