// Package state provides the thread-safe snapshot store shared by the push
// subscriber, the fallback poller, and the UI.
//
// # Overview
//
// The Store is the coordination point where server-delivered snapshots meet
// UI rendering, and where the optimistic preference guard is woven into both
// data paths:
//
//	Producers:                         Consumer (UI):
//	┌─────────────────────┐
//	│ push.Subscriber     │──Apply──┐
//	│ app poller          │──Apply──┤
//	│ metrics.Scraper     │─ApplyNetwork─→ Store ──Snapshot()──→ render
//	└─────────────────────┘
//
// Apply routes every locally-editable preference field through
// optimistic.Guard.Correct before committing, which is what keeps a stale
// broadcast from visually undoing a change the user made moments ago. The
// SetTimezoneMode / SetHideUnknownGames / SetRefreshInterval methods are the
// matching write path: they pend the new value in the guard and make it
// visible immediately; the caller then fires the asynchronous save.
//
// # Update semantics
//
// Apply replaces the whole snapshot and clears the error state. RecordError
// keeps the previous data, records the failure, and bumps a consecutive
// failure counter; Snapshot.IsOffline reports true after two consecutive
// failures so the UI can show an offline badge instead of stale-looking data.
//
// # Concurrency
//
// A sync.RWMutex guards the snapshot; reads get defensive copies of the
// slices and a cloned error. The guard has its own lock and is always called
// outside the store's, so listener callbacks can re-enter freely.
package state
