package command

import (
	"context"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

type Download struct {
	compressor port.Compressor
	command    string
}

func NewDownload(compressor port.Compressor, command string) *Download {
	return &Download{compressor: compressor, command: command}
}

func (d *Download) GetCommand() string {
	return d.command
}

func (d *Download) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", d.GetCommand()).
		Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return d.compressor.Download(ctx, message)
}
