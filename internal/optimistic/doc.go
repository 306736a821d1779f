// Package optimistic reconciles locally-changed session preferences with
// server-pushed state snapshots.
//
// # Problem
//
// The cache server periodically rebroadcasts the full session state,
// including user preferences. A broadcast computed milliseconds before a
// local change was persisted would visibly snap the control back to its old
// value for up to one broadcast interval. The Guard bounds that flicker
// window to a fixed cooldown instead.
//
// # Mechanism
//
// A UI control calls Guard.Set immediately before firing the save request.
// The push handler routes every locally-editable snapshot field through
// Guard.Correct before committing it to visible state:
//
//   - no live pending entry: the incoming value is committed as-is
//   - live entry differing from the incoming value: the pending value wins
//   - live entry equal to the incoming value: the incoming value is
//     committed, but the entry stays live until its own expiry so a later
//     stale broadcast is still corrected
//
// Entries live for Cooldown after the most recent Set and are evicted lazily
// on read; there is no background sweep, so eviction timing is deterministic
// relative to access patterns.
//
// The trade-off is explicit: a genuine concurrent change to the same
// preference from another session is masked for at most Cooldown.
//
// # Known gap
//
// Equality is strict Go interface equality. "10" and 10 are different values
// here even when logically the same; no coercion or normalization is applied,
// matching how the values are produced by the typed setters.
//
// # Concurrency
//
// The guard is shared by the UI goroutine, the push handler, and the fallback
// poller, so the map and listener set are mutex-protected. Subscriber
// callbacks run outside the lock and may re-enter the guard.
package optimistic
