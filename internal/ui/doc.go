// Package ui implements the cachewatch terminal dashboard with Bubble Tea.
//
// The model is deliberately thin: all data lives in the state store and the
// view reads a fresh snapshot on every render. Three things trigger a render:
// the one-second tick, a window resize, and a pendingChangedMsg from the
// optimistic guard subscription — the latter is what makes a preference
// toggle appear instantly, before the save request has even been sent.
//
// Preference keys (timezone mode, hide unknown games, refresh interval) all
// follow the same write path: pend in the guard via the store's setter, then
// fire the save as a tea.Cmd. Maintenance actions (clear service cache,
// remove game, reset database, process logs) go through a confirmation
// prompt where destructive and are polled to completion by operationId.
package ui
