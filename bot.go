package main

import (
	"context"
	"errors"
	"fmt"
	"imgshrink/internal/adapters/handler"
	"imgshrink/internal/adapters/sender"
	"imgshrink/internal/adapters/source"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/domain/command"
	"imgshrink/internal/core/service"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errAlreadyRunning = errors.New("another bot instance is already running")

func newBotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runBot(ctx)
		},
	}
}

func runBot(ctx context.Context) error {
	log.Info().Msg("starting imgshrink bot...")

	lockPath := viper.GetString("bot.lock_file")
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", errAlreadyRunning, lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Msg("failed to release bot lock")
		}
	}()

	token := viper.GetString("telegram.bot_token")
	if token == "" {
		return errors.New("telegram.bot_token is not configured")
	}

	b, err := bot.New(token, bot.WithDefaultHandler(noOpHandler))
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	handlerTimeout, err := durationSetting("handler.timeout")
	if err != nil {
		return err
	}

	transcodeTimeout, err := durationSetting("transcode.timeout")
	if err != nil {
		return err
	}

	sessionTTL, err := durationSetting("session.ttl")
	if err != nil {
		return err
	}

	defaultQuality := viper.GetInt("transcode.default_quality")
	if defaultQuality < 0 || defaultQuality > 100 {
		return fmt.Errorf("%w: transcode.default_quality %d", domain.ErrInvalidQuality, defaultQuality)
	}

	s := sender.NewTelegram(b)
	fetcher := source.NewTelegram(b, viper.GetInt64("transcode.max_bytes"))

	auth, err := service.NewAuthorizer(s)
	if err != nil {
		return fmt.Errorf("failed initializing authorizer: %w", err)
	}

	store := service.NewSessionStore(ctx, sessionTTL, domain.QualityFromPercent(defaultQuality))
	controller := service.NewController(newPipeline(), fetcher, s, s, store, transcodeTimeout)

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/start"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/help"))
	commandRegistry.Register(command.NewQuality(controller, s, "/quality"))
	commandRegistry.Register(command.NewDownload(controller, "/download"))
	commandRegistry.Register(command.NewStatus(controller, s, "/status"))

	updateHandler := handler.NewUpdate(commandRegistry, controller, auth, handlerTimeout)

	b.RegisterHandlerMatchFunc(hasMessage, updateHandler.Handle)

	log.Info().Str("lock", lockPath).Msg("bot listening")
	b.Start(ctx)

	log.Info().Msg("bot stopped")

	return nil
}

func hasMessage(update *models.Update) bool {
	return update.Message != nil
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
