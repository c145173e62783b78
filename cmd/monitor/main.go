package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"traineewatch/internal/config"
	"traineewatch/internal/extract"
	"traineewatch/internal/extract/eurodyssey"
	"traineewatch/internal/extract/generic"
	"traineewatch/internal/fetch"
	"traineewatch/internal/history"
	"traineewatch/internal/logging"
	"traineewatch/internal/monitor"
	"traineewatch/internal/notify"
	"traineewatch/internal/secrets"
)

// runTimeout bounds one site's whole pipeline pass.
const runTimeout = 5 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "path to config.yml (default: <data-dir>/config.yml, seeded from config/config.yml)")
		dataDir    = flag.String("data-dir", "", "state directory (default: MONITOR_DATA_DIR or .)")
	)
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("MONITOR_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}

	path := *configPath
	if path == "" {
		p, err := config.EnsureUserConfig(dir, filepath.Join("config", "config.yml"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "config bootstrap failed: %v\n", err)
			return 2
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed (%s): %v\n", path, err)
		return 2
	}
	if err := config.OverlayEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config env overlay failed: %v\n", err)
		return 2
	}
	if *dataDir != "" {
		cfg.App.DataDir = *dataDir
	} else if cfg.App.DataDir == "" {
		cfg.App.DataDir = dir
	}

	cfg, validation := config.NormalizeAndValidate(cfg)

	log := logging.New(cfg.App.LogLevel)
	defer log.Sync()

	for _, w := range validation.Warnings {
		log.Warn(w)
	}
	if err := validation.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	token, err := secrets.ResolveBotToken(cfg)
	if err != nil {
		log.Error("missing destination credentials", "error", err)
		return 2
	}

	client := fetch.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		time.Duration(*cfg.Fetch.DelaySeconds)*time.Second,
	)

	// One goroutine per enabled site; each pipeline is sequential and owns
	// its history file, so sites never contend on shared state.
	var g errgroup.Group
	for _, site := range cfg.Sites {
		if !site.Enabled {
			log.Info("site disabled, skipping", "site", site.Name)
			continue
		}
		site := site

		g.Go(func() error {
			store, err := history.Open(cfg.Storage.Backend, filepath.Join(cfg.App.DataDir, site.DataFile), log)
			if err != nil {
				return fmt.Errorf("[%s] open history store: %w", site.Name, err)
			}
			defer store.Close()

			notifier, err := notify.NewTelegram(token, cfg.Telegram.ChatID, site.DisableLinkPreview, log)
			if err != nil {
				return fmt.Errorf("[%s] init notifier: %w", site.Name, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			defer cancel()

			runner := monitor.New(buildSource(site, log), client, store, notifier, site.Label, log)
			if _, err := runner.Run(ctx); err != nil {
				return fmt.Errorf("[%s] %w", site.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("monitor run failed", "error", err)
		return 1
	}
	log.Info("all site runs completed")
	return 0
}

func buildSource(site config.Site, log *logging.Logger) extract.Source {
	switch site.Ruleset {
	case "eurodyssey":
		return eurodyssey.New(site.Name, site.URL, site.BaseURL, log)
	default:
		return generic.New(site.Name, site.URL, site.BaseURL, log)
	}
}
