package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"imgshrink/internal/core/domain"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// MagickEncoder encodes through an installed ImageMagick binary, for formats without a Go encoder.
type MagickEncoder struct {
	magickBinary []string
	mimeType     string
	format       string
}

var errMagickUnavailable = errors.New("magick binary not available")

// findMagick returns the command prefix of the first working ImageMagick installation.
func findMagick() ([]string, error) {
	commands := [][]string{{"magick", "-version"}, {"convert", "-version"}}

	for _, command := range commands {
		_, err := exec.Command(command[0], command[1:]...).Output()
		if err != nil {
			log.Debug().Strs("command", command).Msg("binary not found")
			continue
		}

		log.Debug().Strs("command", command).Msg("binary found")
		return command[:len(command)-1], nil
	}

	return nil, errMagickUnavailable
}

// MagickEncoders returns encoders for every given MIME type, e.g. "image/webp", or an error if ImageMagick is not
// installed.
func MagickEncoders(mimeTypes ...string) ([]Encoder, error) {
	binary, err := findMagick()
	if err != nil {
		return nil, err
	}

	encoders := make([]Encoder, 0, len(mimeTypes))
	for _, mimeType := range mimeTypes {
		mimeType = NormalizeMIMEType(mimeType)
		format, ok := strings.CutPrefix(mimeType, "image/")
		if !ok || format == "" {
			return nil, fmt.Errorf("unsupported magick output type %q", mimeType)
		}

		encoders = append(encoders, &MagickEncoder{magickBinary: binary, mimeType: mimeType, format: format})
	}

	return encoders, nil
}

func (m *MagickEncoder) MIMEType() string {
	return m.mimeType
}

// Encode pipes img as PNG into ImageMagick and copies its output to w. The process is killed when ctx is done.
func (m *MagickEncoder) Encode(ctx context.Context, w io.Writer, img image.Image, quality domain.Quality) error {
	in := &bytes.Buffer{}
	if err := png.Encode(in, img); err != nil {
		return fmt.Errorf("error preparing magick input: %w", err)
	}

	args := append(append([]string{}, m.magickBinary...),
		"png:-", "-quality", strconv.Itoa(JPEGQuality(quality)), m.format+":-")

	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = in
	cmd.Stdout = w
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		log.Error().Str("magickStderr", stderr.String()).Msg("magick command failed")
		return fmt.Errorf("magick %s: %w", m.format, err)
	}

	log.Debug().Str("format", m.format).Msg("magick command finished")

	return nil
}
