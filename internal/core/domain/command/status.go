package command

import (
	"context"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/port"
	"strings"
	"time"
)

type Status struct {
	compressor port.Compressor
	textSender port.TextSender
	command    string
}

func NewStatus(compressor port.Compressor, textSender port.TextSender, command string) *Status {
	return &Status{compressor: compressor, textSender: textSender, command: command}
}

func (s *Status) GetCommand() string {
	return s.command
}

func (s *Status) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := s.textSender.SendMessageReply(ctx, message, FormatSnapshot(s.compressor.Status(message.ChatID)))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// FormatSnapshot renders the state of a chat's session as a reply.
func FormatSnapshot(snap domain.Snapshot) string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "Quality: %d%%\n", snap.Quality.Percent())

	if snap.Source == nil {
		sb.WriteString("No image loaded.")
		return sb.String()
	}

	fmt.Fprintf(sb, "Image: %s (%s)\n", snap.Source.Name, snap.Source.MIMEType)
	fmt.Fprintf(sb, "Original: %s", domain.FormatFileSize(snap.Source.Size()))

	switch {
	case snap.InProgress:
		sb.WriteString("\nCompressing...")
	case snap.Result != nil:
		fmt.Fprintf(sb, "\nCompressed: %s (%d%%)", domain.FormatFileSize(snap.Result.Size()),
			snap.Result.Quality.Percent())
		fmt.Fprintf(sb, "\nSaved: %.1f%%", domain.SavedPercent(snap.Source.Size(), snap.Result.Size()))
		fmt.Fprintf(sb, "\nDimensions: %dx%d", snap.Result.Width, snap.Result.Height)
	default:
		sb.WriteString("\nNo compressed result.")
	}

	return sb.String()
}
