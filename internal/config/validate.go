package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate fills defaults and returns a normalized copy plus
// everything wrong with it. Callers decide whether warnings are fatal.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	// ---- Defaults ----

	if out.App.LogLevel == "" {
		out.App.LogLevel = "info"
	}
	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}
	if out.Fetch.TimeoutSeconds <= 0 {
		out.Fetch.TimeoutSeconds = 30
	}
	if out.Fetch.DelaySeconds == nil {
		d := 2
		out.Fetch.DelaySeconds = &d
	} else if *out.Fetch.DelaySeconds < 0 {
		res.addErr("fetch.delay_seconds must be >= 0")
	}
	if out.Storage.Backend == "" {
		out.Storage.Backend = "csv"
	}

	// ---- Validation rules ----

	switch out.Storage.Backend {
	case "csv", "sqlite":
	default:
		res.addErr("storage.backend must be csv or sqlite, got %q", out.Storage.Backend)
	}

	if out.Telegram.ChatID == 0 {
		res.addErr("telegram.chat_id is required (or TELEGRAM_CHAT_ID)")
	}
	if out.Telegram.BotToken == "" && out.Telegram.KeyringAccount == "" {
		res.addErr("telegram bot token is required: set TELEGRAM_BOT_TOKEN or telegram.keyring_account")
	}

	var enabled int
	seen := map[string]bool{}
	for i := range out.Sites {
		s := &out.Sites[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			res.addErr("sites[%d].name is required", i)
			continue
		}
		if seen[s.Name] {
			res.addErr("sites[%d].name %q is duplicated", i, s.Name)
		}
		seen[s.Name] = true

		if s.Label == "" {
			s.Label = s.Name
		}
		if s.URL == "" {
			res.addErr("sites[%d].url is required", i)
		}
		switch s.Ruleset {
		case "generic", "eurodyssey":
		case "":
			s.Ruleset = "generic"
		default:
			res.addErr("sites[%d].ruleset must be generic or eurodyssey, got %q", i, s.Ruleset)
		}
		if s.BaseURL == "" {
			s.BaseURL = originOf(s.URL)
		}
		if s.DataFile == "" {
			if out.Storage.Backend == "sqlite" {
				s.DataFile = s.Name + ".db"
			} else {
				s.DataFile = s.Name + "_listings.csv"
			}
		}
		if s.Enabled {
			enabled++
		}
	}

	if len(out.Sites) == 0 {
		res.addErr("at least one site must be configured")
	} else if enabled == 0 {
		res.addWarn("no sites are enabled; the run will do nothing")
	}

	return out, res
}

func originOf(rawURL string) string {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	scheme := "https://"
	if !ok {
		if rest, ok = strings.CutPrefix(rawURL, "http://"); !ok {
			return ""
		}
		scheme = "http://"
	}
	host, _, _ := strings.Cut(rest, "/")
	if host == "" {
		return ""
	}
	return scheme + host
}
