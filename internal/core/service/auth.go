package service

import (
	"context"
	"errors"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, message *domain.Message) bool
}

// ChatAuthorizer restricts usage to an allowlist of chat IDs. An empty allowlist admits every chat.
type ChatAuthorizer struct {
	allowlist []int64
	admin     string
	sender    port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var list []int64

	err := viper.UnmarshalKey("telegram.allowed_chat_ids", &list)
	if err != nil {
		return nil, errors.New("failed to load allowed chat IDs")
	}

	if len(list) == 0 {
		log.Warn().Msg("no allowed chat IDs configured, bot is open to every chat")
	}

	return &ChatAuthorizer{
		allowlist: list,
		admin:     viper.GetString("telegram.admin_username"),
		sender:    sender,
	}, nil
}

const forbidden = "You are not authorized to use this bot. Please contact @%s with this ID to get access: %d"

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, message *domain.Message) bool {
	if len(a.allowlist) == 0 || slices.Contains(a.allowlist, message.ChatID) {
		return true
	}

	log.Info().Int64("chatId", message.ChatID).Str("username", message.Username).Msg("rejecting unauthorized chat")

	text := domain.UserMessage(domain.ErrUnauthorized)
	if a.admin != "" {
		text = fmt.Sprintf(forbidden, a.admin, message.ChatID)
	}

	_, err := a.sender.SendMessageReply(ctx, message, text)
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
