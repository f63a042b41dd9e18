package command

import (
	"errors"
	"imgshrink/internal/core/port"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

// ListCommands returns the registered command identifiers in alphabetical order.
func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func ParseCommandArgs(args string) string {
	command := strings.Fields(args)
	if len(command) == 0 {
		return ""
	}

	return strings.Join(command[1:], " ")
}

// ParseCommand returns the lower cased command of a message, without the "@botname" suffix Telegram adds in groups.
func ParseCommand(args string) string {
	command, _, _ := strings.Cut(strings.TrimSpace(args), " ")
	command, _, _ = strings.Cut(command, "@")
	return strings.ToLower(command)
}
