package main

import (
	"errors"
	"fmt"
	"imgshrink/internal/core/domain"
	"imgshrink/internal/core/service"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "IMGSHRINK"

func setDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("bot.lock_file", filepath.Join(os.TempDir(), "imgshrink.lock"))
	viper.SetDefault("telegram.allowed_chat_ids", []int64{})
	viper.SetDefault("handler.timeout", "2m")
	viper.SetDefault("transcode.timeout", service.DefaultTimeout.String())
	viper.SetDefault("transcode.default_quality", domain.DefaultQualityPercent)
	viper.SetDefault("transcode.max_bytes", 20*1024*1024)
	viper.SetDefault("transcode.auto_orient", true)
	viper.SetDefault("session.ttl", "24h")
}

// loadConfig reads path, or config.toml from the working directory when path is empty. A missing default config
// file is not an error, every key has a default and can be set through the environment.
func loadConfig(path string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigType("toml")
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			log.Debug().Msg("no config file found, using defaults")
			return nil
		}
		return fmt.Errorf("could not read config file: %w", err)
	}

	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("read config file")

	return nil
}

func durationSetting(key string) (time.Duration, error) {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s in config: %w", key, err)
	}

	return d, nil
}
