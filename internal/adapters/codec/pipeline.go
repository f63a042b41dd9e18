// Package codec implements the transcoding pipeline: decode an image into a pixel surface and re-encode the surface
// at a quality factor.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"imgshrink/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	// registers the WebP decoder with image.Decode
	_ "golang.org/x/image/webp"
)

type Pipeline struct {
	encoders   map[string]Encoder
	fallback   Encoder
	autoOrient bool
}

type Option func(p *Pipeline)

// WithEncoder registers enc for its MIME type, replacing any encoder registered for it before.
func WithEncoder(enc Encoder) Option {
	return func(p *Pipeline) {
		p.encoders[enc.MIMEType()] = enc
	}
}

// WithAutoOrientation controls whether EXIF orientation is applied while decoding. It is enabled by default.
func WithAutoOrientation(enabled bool) Option {
	return func(p *Pipeline) {
		p.autoOrient = enabled
	}
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		encoders:   make(map[string]Encoder),
		autoOrient: true,
	}

	for _, enc := range builtinEncoders() {
		p.encoders[enc.MIMEType()] = enc
	}

	for _, opt := range opts {
		opt(p)
	}

	p.fallback = p.encoders[FallbackMIMEType]

	return p
}

// Supports reports whether mimeType is encoded without falling back.
func (p *Pipeline) Supports(mimeType string) bool {
	_, ok := p.encoders[NormalizeMIMEType(mimeType)]
	return ok
}

type outcome struct {
	result domain.CompressedResult
	err    error
}

// Transcode decodes src and re-encodes it at quality. It stops waiting as soon as ctx is done; the decode and encode
// steps observe ctx at their next read or write and are abandoned.
func (p *Pipeline) Transcode(ctx context.Context, src domain.SourceImage,
	quality domain.Quality) (domain.CompressedResult, error) {
	if len(src.Data) == 0 {
		return domain.CompressedResult{}, fmt.Errorf("%w: empty source", domain.ErrDecode)
	}

	if err := ctx.Err(); err != nil {
		return domain.CompressedResult{}, interrupted(ctx)
	}

	done := make(chan outcome, 1)
	go func() {
		res, err := p.run(ctx, src, quality)
		done <- outcome{result: res, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && ctx.Err() != nil {
			return domain.CompressedResult{}, interrupted(ctx)
		}
		return o.result, o.err
	case <-ctx.Done():
		return domain.CompressedResult{}, interrupted(ctx)
	}
}

func (p *Pipeline) run(ctx context.Context, src domain.SourceImage,
	quality domain.Quality) (domain.CompressedResult, error) {
	l := log.With().
		Str("fileName", src.Name).
		Str("mimeType", src.MIMEType).
		Int("quality", quality.Percent()).
		Logger()

	img, err := imaging.Decode(&contextReader{ctx: ctx, r: bytes.NewReader(src.Data)},
		imaging.AutoOrientation(p.autoOrient))
	if err != nil {
		return domain.CompressedResult{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	surface := imaging.Clone(img)
	bounds := surface.Bounds()
	if bounds.Empty() {
		return domain.CompressedResult{}, fmt.Errorf("%w: image has no pixels", domain.ErrDecode)
	}

	l.Debug().Int("width", bounds.Dx()).Int("height", bounds.Dy()).Msg("decoded source image")

	enc, ok := p.encoders[NormalizeMIMEType(src.MIMEType)]
	if !ok {
		l.Warn().Str("fallback", p.fallback.MIMEType()).Msg("no encoder for type, falling back")
		enc = p.fallback
	}

	out := &bytes.Buffer{}
	out.Grow(len(src.Data))

	err = enc.Encode(ctx, &contextWriter{ctx: ctx, w: out}, surface, quality)
	if err != nil {
		return domain.CompressedResult{}, fmt.Errorf("%w: %w", domain.ErrEncode, err)
	}

	if out.Len() == 0 {
		return domain.CompressedResult{}, fmt.Errorf("%w: encoder produced no output", domain.ErrEncode)
	}

	return domain.CompressedResult{
		Data:     out.Bytes(),
		MIMEType: enc.MIMEType(),
		Quality:  quality,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// interrupted classifies why ctx ended: a deadline is a timeout, anything else is returned as is.
func interrupted(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	return err
}
