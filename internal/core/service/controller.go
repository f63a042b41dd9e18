package service

import (
	"context"
	"errors"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single transcode.
const DefaultTimeout = 30 * time.Second

const (
	receivedTemplate = "Received %s (%s), compressing at %d%%..."
	qualityTemplate  = "Quality set to %d%%. Send me an image to compress."
	pendingTemplate  = "Quality set to %d%%, it applies to the image being loaded."
)

// Controller owns the sessions of all chats and drives the transcoding pipeline for them.
type Controller struct {
	transcoder  port.Transcoder
	fetcher     port.FileFetcher
	textSender  port.TextSender
	imageSender port.ImageSender
	store       *SessionStore
	timeout     time.Duration
}

func NewController(transcoder port.Transcoder, fetcher port.FileFetcher, textSender port.TextSender,
	imageSender port.ImageSender, store *SessionStore, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Controller{transcoder: transcoder, fetcher: fetcher, textSender: textSender, imageSender: imageSender,
		store: store, timeout: timeout}
}

func (c *Controller) SelectFile(ctx context.Context, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Logger()

	att := message.Attachment
	if att == nil {
		return c.notify(ctx, fmt.Errorf("%w: message has no attachment", domain.ErrRead), message)
	}

	s := c.store.get(message.ChatID)
	gen, reqCtx := s.beginLoad(ctx)
	defer s.finish(gen)

	l = l.With().Uint64("generation", gen).Logger()
	l.Info().Str("fileName", att.FileName).Str("mimeType", att.MIMEType).Int64("size", att.Size).
		Msg("loading source image")

	go c.textSender.SendChatAction(reqCtx, message.ChatID, domain.SendingPhoto)

	data, err := c.fetcher.Fetch(reqCtx, att.FileID)
	if err != nil {
		if !s.isCurrent(gen) {
			l.Debug().Err(err).Msg("discarding read failure of superseded request")
			return nil
		}
		return c.notify(ctx, fmt.Errorf("%w: %w", domain.ErrRead, err), message)
	}

	src := domain.SourceImage{Name: att.FileName, MIMEType: att.MIMEType, Data: data}

	quality, ok := s.load(gen, src)
	if !ok {
		l.Debug().Msg("discarding superseded source image")
		return nil
	}

	_, err = c.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf(receivedTemplate, src.Name, domain.FormatFileSize(src.Size()), quality.Percent()))
	if err != nil {
		l.Warn().Err(err).Msg("failed to send source size")
	}

	return c.transcode(reqCtx, message, s, gen, src, quality)
}

func (c *Controller) ChangeQuality(ctx context.Context, message *domain.Message, percent int) error {
	if percent < 0 || percent > 100 {
		return c.notify(ctx, fmt.Errorf("%w: %d", domain.ErrInvalidQuality, percent), message)
	}

	quality := domain.QualityFromPercent(percent)
	s := c.store.get(message.ChatID)
	gen, reqCtx, src, pending := s.beginWithQuality(ctx, quality)

	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Int("quality", percent).
		Logger()

	if pending {
		l.Info().Msg("quality changed while loading source")
		_, err := c.textSender.SendMessageReply(ctx, message, fmt.Sprintf(pendingTemplate, percent))
		return err
	}

	defer s.finish(gen)

	l.Info().Uint64("generation", gen).Msg("quality changed")

	if src == nil {
		_, err := c.textSender.SendMessageReply(ctx, message, fmt.Sprintf(qualityTemplate, percent))
		return err
	}

	go c.textSender.SendChatAction(reqCtx, message.ChatID, domain.SendingPhoto)

	return c.transcode(reqCtx, message, s, gen, *src, quality)
}

func (c *Controller) Download(ctx context.Context, message *domain.Message) error {
	snap := c.Status(message.ChatID)
	if snap.Source == nil {
		return c.notify(ctx, domain.ErrNoSource, message)
	}

	if snap.Result == nil {
		return c.notify(ctx, domain.ErrNoResult, message)
	}

	file := domain.File{
		Name:     domain.DownloadName(snap.Source.Name),
		MIMEType: snap.Source.MIMEType,
		Data:     snap.Result.Data,
	}

	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("fileName", file.Name).
		Int64("size", snap.Result.Size()).
		Msg("delivering compressed image")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.textSender.SendChatAction(ctx, message.ChatID, domain.SendingDocument)

	err := c.imageSender.SendDocumentReply(ctx, message, file, Caption(*snap.Source, *snap.Result))
	if err != nil {
		return c.notify(ctx, fmt.Errorf("%w: compressed file: %w", domain.ErrSendingFailed, err), message)
	}

	return nil
}

func (c *Controller) Status(chatID int64) domain.Snapshot {
	s, ok := c.store.lookup(chatID)
	if !ok {
		return domain.Snapshot{Quality: c.store.defaultQuality}
	}

	return s.snapshot()
}

func (c *Controller) transcode(ctx context.Context, message *domain.Message, s *session, gen uint64,
	src domain.SourceImage, quality domain.Quality) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Uint64("generation", gen).
		Int("quality", quality.Percent()).
		Logger()

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.transcoder.Transcode(tctx, src, quality)
	if err != nil {
		if !s.isCurrent(gen) {
			l.Debug().Err(err).Msg("discarding failure of superseded transcode")
			return nil
		}

		if errors.Is(tctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
			err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}

		if errors.Is(err, context.Canceled) {
			l.Info().Err(err).Msg("transcode cancelled")
			return err
		}

		return c.notify(ctx, err, message)
	}

	l.Info().
		Int64("sourceSize", src.Size()).
		Int64("resultSize", res.Size()).
		Str("mimeType", res.MIMEType).
		Dur("took", time.Since(start)).
		Msg("transcode finished")

	shown, err := s.publish(gen, res, func() error {
		preview := domain.File{Name: domain.DownloadName(src.Name), MIMEType: res.MIMEType, Data: res.Data}
		return c.imageSender.SendImageFileReply(ctx, message, preview, Caption(src, res))
	})
	if !shown {
		l.Debug().Msg("discarding result of superseded transcode")
		return nil
	}

	if err != nil {
		return c.notify(ctx, fmt.Errorf("%w: compressed image: %w", domain.ErrSendingFailed, err), message)
	}

	return nil
}

// notify reports err to the user even when ctx has already expired.
func (c *Controller) notify(ctx context.Context, err error, message *domain.Message) error {
	return c.textSender.NotifyAndReturnError(context.WithoutCancel(ctx), err, message)
}

// Caption describes the size of a compressed result compared to its source.
func Caption(src domain.SourceImage, res domain.CompressedResult) string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "Original: %s\n", domain.FormatFileSize(src.Size()))
	fmt.Fprintf(sb, "Compressed: %s (%d%%)\n", domain.FormatFileSize(res.Size()), res.Quality.Percent())
	fmt.Fprintf(sb, "Saved: %.1f%%", domain.SavedPercent(src.Size(), res.Size()))

	if res.MIMEType != "" && src.MIMEType != "" && res.MIMEType != src.MIMEType {
		fmt.Fprintf(sb, "\nEncoded as %s", res.MIMEType)
	}

	return sb.String()
}
