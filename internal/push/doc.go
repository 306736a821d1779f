// Package push consumes the server's websocket broadcast channel.
//
// The server rebroadcasts the full dashboard snapshot (including session
// preferences) at a fixed cadence. The Subscriber forwards each snapshot to
// the state store, which reconciles preference fields against the optimistic
// guard before committing them; see internal/optimistic for why a broadcast
// computed just before a local change was saved must not win.
//
// The channel is best-effort: on any read or dial failure the Subscriber
// records the error and reconnects with exponential backoff while the REST
// fallback poller keeps the store fresh.
package push
