package main

import (
	"context"
	"fmt"
	"imgshrink/internal/adapters/file"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type compressOptions struct {
	path    string
	quality int
	outDir  string
	timeout time.Duration
	dryRun  bool
}

func newCompressCommand() *cobra.Command {
	opts := compressOptions{}

	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a single image and write compressed_<file>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]

			if !cmd.Flags().Changed("quality") {
				opts.quality = viper.GetInt("transcode.default_quality")
			}

			if !cmd.Flags().Changed("timeout") {
				timeout, err := durationSetting("transcode.timeout")
				if err != nil {
					return err
				}
				opts.timeout = timeout
			}

			_, err := runCompress(cmd.Context(), cmd.OutOrStdout(), newPipeline(), opts)
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.quality, "quality", "q", domain.DefaultQualityPercent, "Quality in percent, 0-100")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory (default: next to the input file)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Abort the compression after this long")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report sizes without writing the output file")

	return cmd
}

// runCompress transcodes one file and prints a size comparison to out. It returns the path written to, which is
// empty on a dry run.
func runCompress(ctx context.Context, out io.Writer, transcoder port.Transcoder, opts compressOptions) (string, error) {
	if opts.quality < 0 || opts.quality > 100 {
		return "", fmt.Errorf("%w: %d", domain.ErrInvalidQuality, opts.quality)
	}

	data, mimeType, err := file.ReadImage(opts.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRead, err)
	}

	src := domain.SourceImage{Name: filepath.Base(opts.path), MIMEType: mimeType, Data: data}
	quality := domain.QualityFromPercent(opts.quality)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := transcoder.Transcode(ctx, src, quality)
	if err != nil {
		log.Debug().Err(err).Str("path", opts.path).Msg("compression failed")
		return "", fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	log.Debug().Dur("took", time.Since(start)).Int64("resultSize", res.Size()).Msg("compressed image")

	fmt.Fprintln(out, renderComparison(src, res))

	if opts.dryRun {
		return "", nil
	}

	dir := opts.outDir
	if dir == "" {
		dir = filepath.Dir(opts.path)
	}

	target := filepath.Join(dir, domain.DownloadName(src.Name))
	if err := file.WriteFile(target, res.Data); err != nil {
		return "", fmt.Errorf("failed to write compressed image: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", target)

	return target, nil
}
