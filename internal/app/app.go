package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cachewatch/cachewatch/internal/config"
	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/metrics"
	"github.com/cachewatch/cachewatch/internal/optimistic"
	"github.com/cachewatch/cachewatch/internal/prefs"
	"github.com/cachewatch/cachewatch/internal/push"
	"github.com/cachewatch/cachewatch/internal/state"
	"github.com/cachewatch/cachewatch/internal/ui"
)

// Options configure the cachewatch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cachewatch/prefs.toml
	PollEvery  int    // seconds; zero uses the configured or default interval
}

// Run boots the cachewatch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := lancache.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init lancache client: %w", err)
	}

	guard := optimistic.NewGuard()
	store := state.NewStore(guard)

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	var scraper *metrics.Scraper
	if cfg.MetricsURL != "" {
		scraper = metrics.New(cfg.MetricsURL)
	}

	// Primary delivery path: the websocket push channel.
	subscriber := push.New(client.WebSocketURL(), store)
	go subscriber.Run(ctx)

	// Fallback delivery path: REST polling at a fixed cadence.
	StartPoller(ctx, store, client, scraper, interval)

	// Do initial refresh to populate the store before the UI starts.
	_ = refresh(ctx, store, client)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
