package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"traineewatch/internal/config"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "traineewatch"

// ResolveBotToken returns the Telegram bot token, preferring whatever the
// config already carries (YAML or env overlay) and falling back to the OS
// keychain entry named by telegram.keyring_account.
func ResolveBotToken(cfg config.Config) (string, error) {
	if tok := strings.TrimSpace(cfg.Telegram.BotToken); tok != "" {
		return tok, nil
	}

	if acct := strings.TrimSpace(cfg.Telegram.KeyringAccount); acct != "" {
		tok, err := keyring.Get(KeyringService, acct)
		if err == nil && strings.TrimSpace(tok) != "" {
			return tok, nil
		}
	}

	return "", errors.New("telegram bot token not found (set TELEGRAM_BOT_TOKEN or store it in the keychain)")
}

func SetBotToken(keyringAccount string, token string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, token)
}

func DeleteBotToken(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
