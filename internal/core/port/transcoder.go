package port

import (
	"context"
	"imgshrink/internal/core/domain"
)

type Transcoder interface {
	// Transcode decodes the source image and re-encodes it at the given quality. It returns an error wrapping
	// domain.ErrDecode, domain.ErrEncode or domain.ErrTimeout on failure, or the context error when cancelled.
	Transcode(ctx context.Context, src domain.SourceImage, quality domain.Quality) (domain.CompressedResult, error)
}

type FileFetcher interface {
	// Fetch retrieves the content of a user supplied file by its identifier.
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}
