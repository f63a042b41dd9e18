package port

import (
	"context"
	"imgshrink/internal/core/domain"
	"time"
)

type Command interface {
	// Respond processes a given message within a specified timeout and responds to the originating context.
	Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error
	// GetCommand retrieves the command identifier associated with a specific command handler.
	GetCommand() string
}

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its string identifier or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns a list of all command identifiers currently registered in the command registry.
	ListCommands() []string
}

type Compressor interface {
	// SelectFile loads the image attached to message and compresses it at the session's current quality.
	SelectFile(ctx context.Context, message *domain.Message) error
	// ChangeQuality sets the session quality and recompresses the loaded image.
	ChangeQuality(ctx context.Context, message *domain.Message, percent int) error
	// Download delivers the current compressed result as a file.
	Download(ctx context.Context, message *domain.Message) error
	// Status returns a copy of the chat's session state.
	Status(chatID int64) domain.Snapshot
}
