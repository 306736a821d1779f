package state

import (
	"errors"
	"testing"
	"time"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/optimistic"
)

func newTestStore() (*Store, *time.Duration) {
	offset := new(time.Duration)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	guard := optimistic.NewGuardWithClock(func() time.Time {
		return base.Add(*offset)
	})
	return NewStore(guard), offset
}

func serverSnapshot(prefs lancache.SessionPrefs) lancache.Snapshot {
	return lancache.Snapshot{
		Cache:    lancache.CacheInfo{TotalBytes: 1000, UsedBytes: 250},
		Services: []lancache.ServiceStats{{Service: "steam", TotalBytes: 250}},
		Downloads: []lancache.Download{
			{ID: 1, Service: "steam", Game: "Portal"},
		},
		Prefs: prefs,
	}
}

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	s, _ := newTestStore()

	before := time.Now()
	s.Apply(serverSnapshot(lancache.SessionPrefs{RefreshIntervalSeconds: 10}))

	snap := s.Snapshot()
	if !snap.HasData || snap.Cache.TotalBytes != 1000 {
		t.Fatalf("snapshot = %#v, want HasData with totalBytes=1000", snap.Cache)
	}
	if len(snap.Downloads) != 1 || snap.Downloads[0].Game != "Portal" {
		t.Fatalf("downloads = %#v, want Portal", snap.Downloads)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Downloads[0].Game = "Mutated"
	snap.Services[0].Service = "mutated"
	snap2 := s.Snapshot()
	if snap2.Downloads[0].Game != "Portal" || snap2.Services[0].Service != "steam" {
		t.Fatalf("Snapshot should clone slices; got %#v", snap2.Downloads)
	}
}

func TestStore_RecordErrorKeepsPreviousData(t *testing.T) {
	s, _ := newTestStore()
	s.Apply(serverSnapshot(lancache.SessionPrefs{}))

	s.RecordError(errors.New("connection refused"))
	snap := s.Snapshot()
	if !snap.HasData || snap.Cache.TotalBytes != 1000 {
		t.Fatalf("data lost on error: %#v", snap.Cache)
	}
	if snap.LastError == nil || snap.ConsecutiveFailures != 1 {
		t.Fatalf("LastError = %v, failures = %d, want recorded failure", snap.LastError, snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline after one failure, want false")
	}

	s.RecordError(errors.New("still down"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline = false after two failures, want true")
	}

	s.Apply(serverSnapshot(lancache.SessionPrefs{}))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("Apply should clear failure state, got %#v", snap)
	}
}

func TestStore_LocalWriteVisibleImmediately(t *testing.T) {
	s, _ := newTestStore()
	s.Apply(serverSnapshot(lancache.SessionPrefs{}))

	prefs := s.SetTimezoneMode(optimistic.TimezoneLocal24)
	if !prefs.UseLocalTimezone || !prefs.Use24HourFormat {
		t.Fatalf("SetTimezoneMode returned %#v, want both true", prefs)
	}

	snap := s.Snapshot()
	if !snap.Prefs.UseLocalTimezone || !snap.Prefs.Use24HourFormat {
		t.Fatalf("prefs not visible before save: %#v", snap.Prefs)
	}
	if s.TimezoneMode() != optimistic.TimezoneLocal24 {
		t.Fatalf("TimezoneMode = %q, want %q", s.TimezoneMode(), optimistic.TimezoneLocal24)
	}
}

func TestStore_StaleSnapshotCannotUndoLocalWrite(t *testing.T) {
	s, offset := newTestStore()
	s.Apply(serverSnapshot(lancache.SessionPrefs{RefreshIntervalSeconds: 10}))

	s.SetHideUnknownGames(true)
	s.SetRefreshInterval(30)

	// A broadcast computed before the save landed still carries old values.
	*offset = 500 * time.Millisecond
	s.Apply(serverSnapshot(lancache.SessionPrefs{HideUnknownGames: false, RefreshIntervalSeconds: 10}))

	snap := s.Snapshot()
	if !snap.Prefs.HideUnknownGames {
		t.Fatal("stale snapshot undid hideUnknownGames inside cooldown")
	}
	if snap.Prefs.RefreshIntervalSeconds != 30 {
		t.Fatalf("refresh interval = %d, want pending 30", snap.Prefs.RefreshIntervalSeconds)
	}

	// After the cooldown the server value is authoritative again.
	*offset = optimistic.Cooldown + 600*time.Millisecond
	s.Apply(serverSnapshot(lancache.SessionPrefs{HideUnknownGames: false, RefreshIntervalSeconds: 10}))

	snap = s.Snapshot()
	if snap.Prefs.HideUnknownGames || snap.Prefs.RefreshIntervalSeconds != 10 {
		t.Fatalf("prefs = %#v, want server values after expiry", snap.Prefs)
	}
}

func TestStore_TimezonePairCorrectedIndependently(t *testing.T) {
	s, offset := newTestStore()
	s.Apply(serverSnapshot(lancache.SessionPrefs{}))

	s.SetTimezoneMode(optimistic.TimezoneLocal24)

	// Extend only the hour-format guard.
	*offset = 1500 * time.Millisecond
	s.Guard().Set(optimistic.KeyUse24HourFormat, true)

	*offset = 2500 * time.Millisecond
	s.Apply(serverSnapshot(lancache.SessionPrefs{}))

	snap := s.Snapshot()
	if snap.Prefs.UseLocalTimezone {
		t.Fatal("useLocalTimezone still overridden after its own expiry")
	}
	if !snap.Prefs.Use24HourFormat {
		t.Fatal("use24HourFormat lost its independent protection window")
	}
}

func TestStore_ApplyNetwork(t *testing.T) {
	s, _ := newTestStore()

	s.ApplyNetwork(Network{HitBytesTotal: 10, MissBytesTotal: 5, ActiveConnections: 3})
	snap := s.Snapshot()
	if !snap.HasNetwork || snap.Network.ActiveConnections != 3 {
		t.Fatalf("network = %#v, want scraped values", snap.Network)
	}
}
