package handler

import (
	"context"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/domain/command"
	"imgshrink/internal/core/port"
	"imgshrink/internal/core/service"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Update routes incoming Telegram updates: images select a new source, commands go to the registry.
type Update struct {
	commandRegistry port.CommandRegistry
	compressor      port.Compressor
	auth            service.Authorizer
	timeout         time.Duration
}

func NewUpdate(commandRegistry port.CommandRegistry, compressor port.Compressor, auth service.Authorizer,
	timeout time.Duration) *Update {
	return &Update{commandRegistry: commandRegistry, compressor: compressor, auth: auth, timeout: timeout}
}

func (u *Update) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	message := toMessage(update.Message)

	log.Debug().Int64("chatId", message.ChatID).Str("message", message.Text).
		Bool("attachment", message.Attachment != nil).Msg("received update")

	if message.Attachment != nil {
		go u.selectFile(ctx, message)
		return
	}

	if !strings.HasPrefix(message.Text, "/") {
		return
	}

	cmd := command.ParseCommand(message.Text)
	commandHandler, err := u.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	go func() {
		if !u.auth.IsAuthorized(ctx, message) {
			return
		}

		err := commandHandler.Respond(ctx, u.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

func (u *Update) selectFile(ctx context.Context, message *domain.Message) {
	if !u.auth.IsAuthorized(ctx, message) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	err := u.compressor.SelectFile(ctx, message)
	if err != nil {
		log.Err(err).Int64("chatId", message.ChatID).Msg("failed to compress selected image")
	}
}

func toMessage(m *models.Message) *domain.Message {
	message := &domain.Message{
		ID:     m.ID,
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}

	if m.From != nil {
		message.Username = getUserNameOrFirstName(m.From)
	}

	if m.Caption != "" && message.Text == "" {
		message.Text = m.Caption
	}

	message.Attachment = findAttachment(m)

	return message
}

// findAttachment returns the image of a message. Photos are offered by Telegram in several sizes, the largest is
// the one closest to what the user sent. Documents count only if they declare an image type.
func findAttachment(m *models.Message) *domain.Attachment {
	if len(m.Photo) > 0 {
		largest := m.Photo[0]
		for _, p := range m.Photo[1:] {
			if p.Width*p.Height > largest.Width*largest.Height {
				largest = p
			}
		}

		return &domain.Attachment{
			FileID:   largest.FileID,
			FileName: fmt.Sprintf("%s.jpg", largest.FileUniqueID),
			MIMEType: "image/jpeg",
			Size:     int64(largest.FileSize),
		}
	}

	if m.Document != nil && strings.HasPrefix(m.Document.MimeType, "image/") {
		name := m.Document.FileName
		if name == "" {
			name = m.Document.FileUniqueID
		}

		return &domain.Attachment{
			FileID:   m.Document.FileID,
			FileName: name,
			MIMEType: m.Document.MimeType,
			Size:     m.Document.FileSize,
		}
	}

	return nil
}

func getUserNameOrFirstName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
