// Package app provides the orchestration layer for cachewatch.
//
// # Overview
//
// Run is the composition root. It wires configuration, the API client, the
// optimistic preference guard, the snapshot store, both delivery paths, and
// the UI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        read ~/.config/cachewatch/config.toml
//	       ├─────> prefs.Load()         read local theme prefs
//	       ├─────> lancache.NewClient() HTTP client + session ID
//	       ├─────> optimistic.NewGuard()
//	       ├─────> state.NewStore(guard)
//	       ├─────> push.New().Run()     websocket snapshot channel
//	       ├─────> StartPoller()        REST fallback + metrics scrape
//	       └─────> ui.Run()             TUI (blocks)
//
// # Delivery paths
//
// Snapshots reach the store two ways: the websocket push channel (primary)
// and the REST poller (fallback). Both call Store.Apply, which reconciles
// preference fields through the guard, so it does not matter which path
// delivers a stale preference value first — the correction is uniform.
//
// The poller keeps running while the push channel is healthy. Its cadence is
// low and Apply is idempotent, so the redundancy costs little and removes the
// failover gap entirely.
//
// # Error handling
//
// Fatal (returned from Run): malformed config file, invalid server URL.
// Recoverable (recorded in the store, logged): poll failures, push channel
// disconnects, metrics scrape failures. The UI renders an offline badge once
// failures accumulate instead of exiting.
package app
