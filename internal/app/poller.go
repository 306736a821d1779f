package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/metrics"
	"github.com/cachewatch/cachewatch/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	downloadsPerPoll    = 50
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence. It returns immediately. The poller is the fallback for the
// push channel, so it keeps running even while the channel is healthy; Apply
// is idempotent and the optimistic guard corrects preference fields on both
// paths.
func StartPoller(ctx context.Context, store *state.Store, client lancache.API, scraper *metrics.Scraper, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if err := refresh(ctx, store, client); err != nil {
				slog.Warn("poll failed", "err", err)
			}
			if scraper != nil {
				scrape(ctx, store, scraper)
			}
		}
	}()
}

// refresh reassembles a full snapshot from the REST endpoints and applies it.
func refresh(ctx context.Context, store *state.Store, client lancache.API) error {
	info, err := client.FetchCacheInfo(ctx)
	if err != nil {
		store.RecordError(err)
		return err
	}
	services, err := client.FetchServiceStats(ctx)
	if err != nil {
		store.RecordError(err)
		return err
	}
	downloads, err := client.FetchDownloads(ctx, downloadsPerPoll)
	if err != nil {
		store.RecordError(err)
		return err
	}
	sessionPrefs, err := client.FetchSessionPrefs(ctx)
	if err != nil {
		store.RecordError(err)
		return err
	}

	store.Apply(lancache.Snapshot{
		Cache:     *info,
		Services:  services,
		Downloads: downloads,
		Prefs:     *sessionPrefs,
	})
	return nil
}

// scrape records transport metrics; failures are logged and otherwise ignored.
func scrape(ctx context.Context, store *state.Store, scraper *metrics.Scraper) {
	stats, err := scraper.Scrape(ctx)
	if err != nil {
		slog.Warn("metrics scrape failed", "err", err)
		return
	}
	store.ApplyNetwork(state.Network{
		HitBytesTotal:     stats.HitBytesTotal,
		MissBytesTotal:    stats.MissBytesTotal,
		ActiveConnections: stats.ActiveConnections,
		ScrapedAt:         stats.ScrapedAt,
	})
}
