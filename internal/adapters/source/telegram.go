package source

import (
	"context"
	"errors"
	"fmt"
	"imgshrink/internal/adapters/file"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// MaxBotAPIFileSize is the largest file the Bot API lets bots download.
const MaxBotAPIFileSize = 20 * 1024 * 1024

type FileBot interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

// Telegram fetches files users sent to the bot.
type Telegram struct {
	bot      FileBot
	maxBytes int64
}

func NewTelegram(bot FileBot, maxBytes int64) *Telegram {
	if maxBytes <= 0 || maxBytes > MaxBotAPIFileSize {
		maxBytes = MaxBotAPIFileSize
	}

	return &Telegram{bot: bot, maxBytes: maxBytes}
}

func (t *Telegram) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errors.New("missing file id")
	}

	f, err := t.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("error getting file from telegram api: %w", err)
	}

	if f.FileSize > t.maxBytes {
		return nil, fmt.Errorf("file of %d bytes exceeds limit of %d bytes", f.FileSize, t.maxBytes)
	}

	log.Debug().Str("fileId", fileID).Int64("size", f.FileSize).Msg("downloading file")

	return file.DownloadFile(ctx, t.bot.FileDownloadLink(f), t.maxBytes)
}
