package command

import (
	"context"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"strings"
	"time"
)

var descriptions = map[string]string{
	"/start":    "show this message",
	"/help":     "show this message",
	"/quality":  "set the compression quality, 0-100",
	"/download": "get the compressed image as a file",
	"/status":   "show the loaded image and its sizes",
}

type Help struct {
	registry   port.CommandRegistry
	textSender port.TextSender
	command    string
}

func NewHelp(registry port.CommandRegistry, textSender port.TextSender, command string) *Help {
	return &Help{registry: registry, textSender: textSender, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

func (h *Help) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sb := &strings.Builder{}

	_, err := sb.WriteString("Send me a photo or an image file and I will re-encode it at a lower quality " +
		"and tell you how much smaller it got. Send images as files to keep their original format.\n\n")
	if err != nil {
		return fmt.Errorf("failed to construct response: %w", err)
	}

	for _, cmd := range h.registry.ListCommands() {
		desc, ok := descriptions[cmd]
		if !ok {
			continue
		}

		_, err = fmt.Fprintf(sb, "%s - %s\n", cmd, desc)
		if err != nil {
			return fmt.Errorf("failed to construct response: %w", err)
		}
	}

	_, err = h.textSender.SendMessageReply(ctx, message, strings.TrimSpace(sb.String()))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
