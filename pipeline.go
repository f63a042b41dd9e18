package main

import (
	"imgshrink/internal/adapters/codec"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// newPipeline builds the transcoding pipeline, adding the ImageMagick encoders when the binary is installed.
func newPipeline() *codec.Pipeline {
	opts := []codec.Option{codec.WithAutoOrientation(viper.GetBool("transcode.auto_orient"))}

	encoders, err := codec.MagickEncoders("image/webp", "image/avif")
	if err != nil {
		log.Warn().Err(err).Msg("webp and avif output disabled, falling back to png")
	}

	for _, enc := range encoders {
		opts = append(opts, codec.WithEncoder(enc))
	}

	return codec.NewPipeline(opts...)
}
