package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// OverlayEnv layers environment variables over the YAML config. Credentials
// normally arrive this way (CI secrets) rather than living in the file.
// A .env file in the working directory is honored if present.
func OverlayEnv(cfg *Config) error {
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("MONITOR_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("MONITOR_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	return nil
}
