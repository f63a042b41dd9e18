package port

import (
	"context"
	"imgshrink/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// SendChatAction sends a specified chat action (e.g., typing, sending photo) to indicate activity in a given chat.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
	// NotifyAndReturnError logs err, sends its user facing text as a reply to message and returns the error.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type ImageSender interface {
	// SendImageFileReply sends an image for display in response to the provided message.
	SendImageFileReply(ctx context.Context, message *domain.Message, file domain.File, caption string) error
	// SendDocumentReply sends a file unmodified, as a download, in response to the provided message.
	SendDocumentReply(ctx context.Context, message *domain.Message, file domain.File, caption string) error
}
