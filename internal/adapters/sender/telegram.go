package sender

import (
	"bytes"
	"context"
	"imgshrink/internal/core/domain"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name TelegramBot

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// TelegramMessageLimit is the maximum number of characters Telegram accepts in one message.
const TelegramMessageLimit = 4096

const ChatActionRepeat = 5 * time.Second

type Telegram struct {
	bot          TelegramBot
	actionRepeat time.Duration
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot, actionRepeat: ChatActionRepeat}
}

func replyTo(message *domain.Message) *models.ReplyParameters {
	if message.ID == 0 {
		return nil
	}

	return &models.ReplyParameters{
		MessageID: message.ID,
		ChatID:    message.ChatID,
	}
}

// SendMessageReply sends text as a reply, split into several messages if it exceeds TelegramMessageLimit. It returns
// the ID of the last message sent.
func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	var id int

	for _, chunk := range chunkText(text, TelegramMessageLimit) {
		sent, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          message.ChatID,
			Text:            chunk,
			ReplyParameters: replyTo(message),
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", message.ChatID).Msg("failed to send message reply")
			return 0, err
		}

		if sent != nil {
			id = sent.ID
		}
	}

	return id, nil
}

func (s *Telegram) SendImageFileReply(ctx context.Context, message *domain.Message, file domain.File,
	caption string) error {
	params := &bot.SendPhotoParams{
		ChatID:          message.ChatID,
		Photo:           &models.InputFileUpload{Filename: file.Name, Data: bytes.NewReader(file.Data)},
		Caption:         caption,
		ReplyParameters: replyTo(message),
	}

	_, err := s.bot.SendPhoto(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to send photo response")
		return err
	}

	return nil
}

func (s *Telegram) SendDocumentReply(ctx context.Context, message *domain.Message, file domain.File,
	caption string) error {
	params := &bot.SendDocumentParams{
		ChatID:                      message.ChatID,
		Document:                    &models.InputFileUpload{Filename: file.Name, Data: bytes.NewReader(file.Data)},
		Caption:                     caption,
		DisableContentTypeDetection: true,
		ReplyParameters:             replyTo(message),
	}

	_, err := s.bot.SendDocument(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("fileName", file.Name).Msg("failed to send document response")
		return err
	}

	return nil
}

// NotifyAndReturnError logs err with all details and replies with its generic user facing text.
func (s *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	log.Error().Err(err).Int64("chatId", message.ChatID).Int("messageId", message.ID).Msg("request failed")

	_, sendErr := s.SendMessageReply(ctx, message, domain.UserMessage(err))
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("failed to send error notification")
		return sendErr
	}

	return err
}

// SendChatAction repeats action until ctx is done, as Telegram clears it after a few seconds.
func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	var chatAction models.ChatAction
	switch action {
	case domain.SendingPhoto:
		chatAction = models.ChatActionUploadPhoto
	case domain.SendingDocument:
		chatAction = models.ChatActionUploadDocument
	default:
		chatAction = models.ChatActionTyping
	}

	log.Debug().Int64("chatId", chatID).Msg("starting action routine")
	for {
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			if ctx.Err() == nil {
				log.Err(err).Msg("error sending chat action")
			}
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatId", chatID).Msg("done, stopping action routine")
			return
		case <-time.After(s.actionRepeat):
		}
	}
}

func chunkText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}

	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}

	return chunks
}
