package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Site is one monitored listings page.
type Site struct {
	Name    string `yaml:"name"`  // short key, also used for history file names
	Label   string `yaml:"label"` // human label used in notification headers
	URL     string `yaml:"url"`
	Ruleset string `yaml:"ruleset"`  // generic | eurodyssey
	BaseURL string `yaml:"base_url"` // origin for absolutizing relative links
	Enabled bool   `yaml:"enabled"`

	// DataFile overrides the default "<name>_listings.csv" / "<name>.db".
	DataFile string `yaml:"data_file"`

	DisableLinkPreview bool `yaml:"disable_link_preview"`
}

type Config struct {
	App struct {
		LogLevel string `yaml:"log_level"`
		DataDir  string `yaml:"data_dir"`
	} `yaml:"app"`

	Fetch struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`

		// DelaySeconds is the politeness delay before each request. Nil
		// means unset (defaulted to 2); an explicit 0 disables pacing.
		DelaySeconds *int `yaml:"delay_seconds"`
	} `yaml:"fetch"`

	Storage struct {
		Backend string `yaml:"backend"` // csv | sqlite
	} `yaml:"storage"`

	Telegram struct {
		BotToken string `yaml:"bot_token"` // usually left empty; env or keyring wins
		ChatID   int64  `yaml:"chat_id"`

		// KeyringAccount names an OS keychain entry holding the bot token,
		// used when neither env nor YAML provides one.
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"telegram"`

	Sites []Site `yaml:"sites"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
