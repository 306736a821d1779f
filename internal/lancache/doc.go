// Package lancache provides an HTTP client for the lancache monitor API.
//
// The client covers three surfaces:
//
//   - read endpoints: cache info, per-service stats, recent downloads, and
//     the session's display preferences
//   - the preference write endpoint, keyed server-side by the X-Session-ID
//     header every request carries
//   - maintenance operations (clear service cache, remove game, reset
//     database, process logs), each returning an Operation handle whose
//     progress can be polled by operationId
//
// The package also derives the websocket push-channel URL from the configured
// base URL; the channel itself is consumed by internal/push.
//
// All types mirror the server's camelCase JSON schema and carry no behavior
// beyond small display helpers.
package lancache
