package optimistic

import (
	"testing"
	"time"
)

func TestTimezoneMode_SplitAndModeFor(t *testing.T) {
	tests := []struct {
		mode     TimezoneMode
		useLocal bool
		use24    bool
	}{
		{TimezoneLocal24, true, true},
		{TimezoneLocal12, true, false},
		{TimezoneServer24, false, true},
		{TimezoneServer12, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			useLocal, use24, ok := tt.mode.split()
			if !ok || useLocal != tt.useLocal || use24 != tt.use24 {
				t.Fatalf("split() = %v, %v, %v, want %v, %v, true", useLocal, use24, ok, tt.useLocal, tt.use24)
			}
			if got := ModeFor(tt.useLocal, tt.use24); got != tt.mode {
				t.Fatalf("ModeFor = %q, want %q", got, tt.mode)
			}
		})
	}

	if _, _, ok := TimezoneMode("utc-25h").split(); ok {
		t.Fatal("split accepted unknown mode")
	}
}

func TestSetPendingTimezone_CorrectsBothBooleans(t *testing.T) {
	g, clock := newTestGuard()

	g.SetPendingTimezone(TimezoneLocal24)

	clock.offset = 100 * time.Millisecond
	useLocal, use24 := g.CorrectTimezone(false, false)
	if !useLocal || !use24 {
		t.Fatalf("CorrectTimezone at t=100ms = %v, %v, want true, true", useLocal, use24)
	}

	clock.offset = 2100 * time.Millisecond
	useLocal, use24 = g.CorrectTimezone(false, false)
	if useLocal || use24 {
		t.Fatalf("CorrectTimezone at t=2100ms = %v, %v, want false, false", useLocal, use24)
	}
}

func TestSetPendingTimezone_KeysExpireIndependently(t *testing.T) {
	g, clock := newTestGuard()

	g.SetPendingTimezone(TimezoneLocal24)

	// Re-pend only the hour format; its window now outlives the other key's.
	clock.offset = 1500 * time.Millisecond
	g.Set(KeyUse24HourFormat, true)

	clock.offset = 2500 * time.Millisecond
	useLocal, use24 := g.CorrectTimezone(false, false)
	if useLocal {
		t.Fatal("useLocalTimezone still overridden after its expiry")
	}
	if !use24 {
		t.Fatal("use24HourFormat expired with its sibling, want independent window")
	}
}

func TestSetPendingTimezone_IgnoresUnknownMode(t *testing.T) {
	g, _ := newTestGuard()

	g.SetPendingTimezone("")
	if g.Has(KeyUseLocalTimezone) || g.Has(KeyUse24HourFormat) {
		t.Fatal("unknown mode pended entries, want no-op")
	}
}

func TestCorrectBool_TypeMismatchKeepsIncoming(t *testing.T) {
	g, _ := newTestGuard()

	g.Set("flag", "yes")
	if got := CorrectBool(g, "flag", false); got != false {
		t.Fatalf("CorrectBool with non-bool pending = %v, want incoming false", got)
	}
}

func TestCorrectInt(t *testing.T) {
	g, clock := newTestGuard()

	g.Set("interval", 30)
	if got := CorrectInt(g, "interval", 10); got != 30 {
		t.Fatalf("CorrectInt while live = %d, want 30", got)
	}

	clock.offset = Cooldown
	if got := CorrectInt(g, "interval", 10); got != 10 {
		t.Fatalf("CorrectInt after expiry = %d, want 10", got)
	}
}
