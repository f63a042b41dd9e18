package command

import (
	"context"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const currentQualityTemplate = "Current quality: %d%%\nusage: /quality <0-100>"

type Quality struct {
	compressor port.Compressor
	textSender port.TextSender
	command    string
}

func NewQuality(compressor port.Compressor, textSender port.TextSender, command string) *Quality {
	return &Quality{compressor: compressor, textSender: textSender, command: command}
}

func (q *Quality) GetCommand() string {
	return q.command
}

func (q *Quality) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", q.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := ParseCommandArgs(message.Text)
	if args == "" {
		current := q.compressor.Status(message.ChatID).Quality
		_, err := q.textSender.SendMessageReply(ctx, message, fmt.Sprintf(currentQualityTemplate, current.Percent()))
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return nil
	}

	percent, err := domain.ParseQualityPercent(args)
	if err != nil {
		_ = q.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	return q.compressor.ChangeQuality(ctx, message, percent)
}
