package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/optimistic"
)

// Guard keys for the primitive session preferences. The timezone pair lives
// in package optimistic next to its compound adapter.
const (
	keyHideUnknownGames = "prefs.hideUnknownGames"
	keyRefreshInterval  = "prefs.refreshIntervalSeconds"
)

// Network holds gauge values scraped from the cache server's nginx metrics
// endpoint. Zero value means "not scraped yet".
type Network struct {
	HitBytesTotal     float64
	MissBytesTotal    float64
	ActiveConnections float64
	ScrapedAt         time.Time
}

// Snapshot is the latest data available to the UI.
type Snapshot struct {
	Cache     lancache.CacheInfo
	Services  []lancache.ServiceStats
	Downloads []lancache.Download
	Prefs     lancache.SessionPrefs
	HasData   bool

	Network    Network
	HasNetwork bool

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the server has been unreachable for multiple
// delivery attempts (push reconnects or polls).
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent snapshot updates from the push subscriber and
// the fallback poller with reads from the UI. Every incoming preference field
// passes through the optimistic guard before it becomes visible, and every
// local preference write is pended in the guard before the caller fires the
// save request.
type Store struct {
	guard *optimistic.Guard

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore builds a Store correcting preferences through guard.
func NewStore(guard *optimistic.Guard) *Store {
	return &Store{guard: guard}
}

// Guard exposes the optimistic guard for subscription by UI bindings.
func (s *Store) Guard() *optimistic.Guard {
	return s.guard
}

// Apply commits an incoming server snapshot. Preference fields are reconciled
// against live pending local values first, so a broadcast computed before a
// just-made change was persisted cannot visibly undo it.
func (s *Store) Apply(snap lancache.Snapshot) {
	snap.Prefs = s.correctPrefs(snap.Prefs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Cache = snap.Cache
	s.snapshot.Services = cloneServices(snap.Services)
	s.snapshot.Downloads = cloneDownloads(snap.Downloads)
	s.snapshot.Prefs = snap.Prefs
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// RecordError keeps the previous data but records the delivery failure.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// ApplyNetwork records the latest metrics scrape. Scrape failures are not
// recorded here; metrics are best-effort decoration.
func (s *Store) ApplyNetwork(n Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Network = n
	s.snapshot.HasNetwork = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Services = cloneServices(s.snapshot.Services)
	snap.Downloads = cloneDownloads(s.snapshot.Downloads)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// SetTimezoneMode applies a timezone mode change locally: both underlying
// booleans are pended in the guard and the visible snapshot is updated
// immediately. The caller fires the SaveSessionPrefs request afterwards.
func (s *Store) SetTimezoneMode(mode optimistic.TimezoneMode) lancache.SessionPrefs {
	s.guard.SetPendingTimezone(mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.guard.Get(optimistic.KeyUseLocalTimezone); ok {
		if b, ok := v.(bool); ok {
			s.snapshot.Prefs.UseLocalTimezone = b
		}
	}
	if v, ok := s.guard.Get(optimistic.KeyUse24HourFormat); ok {
		if b, ok := v.(bool); ok {
			s.snapshot.Prefs.Use24HourFormat = b
		}
	}
	return s.snapshot.Prefs
}

// SetHideUnknownGames pends and applies the hide-unknown-games preference.
func (s *Store) SetHideUnknownGames(hide bool) lancache.SessionPrefs {
	s.guard.Set(keyHideUnknownGames, hide)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Prefs.HideUnknownGames = hide
	return s.snapshot.Prefs
}

// SetRefreshInterval pends and applies the refresh interval preference.
func (s *Store) SetRefreshInterval(seconds int) lancache.SessionPrefs {
	s.guard.Set(keyRefreshInterval, seconds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Prefs.RefreshIntervalSeconds = seconds
	return s.snapshot.Prefs
}

// TimezoneMode returns the composite tag for the currently visible pair.
func (s *Store) TimezoneMode() optimistic.TimezoneMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return optimistic.ModeFor(s.snapshot.Prefs.UseLocalTimezone, s.snapshot.Prefs.Use24HourFormat)
}

// correctPrefs resolves every locally-editable field against the guard.
// Called before taking the store lock; the guard has its own.
func (s *Store) correctPrefs(incoming lancache.SessionPrefs) lancache.SessionPrefs {
	out := incoming
	out.UseLocalTimezone, out.Use24HourFormat = s.guard.CorrectTimezone(
		incoming.UseLocalTimezone, incoming.Use24HourFormat)
	out.HideUnknownGames = optimistic.CorrectBool(s.guard, keyHideUnknownGames, incoming.HideUnknownGames)
	out.RefreshIntervalSeconds = optimistic.CorrectInt(s.guard, keyRefreshInterval, incoming.RefreshIntervalSeconds)
	return out
}

func cloneServices(items []lancache.ServiceStats) []lancache.ServiceStats {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lancache.ServiceStats, len(items))
	copy(dup, items)
	return dup
}

func cloneDownloads(items []lancache.Download) []lancache.Download {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lancache.Download, len(items))
	copy(dup, items)
	return dup
}
