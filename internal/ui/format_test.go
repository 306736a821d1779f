package ui

import (
	"testing"
	"time"

	"github.com/cachewatch/cachewatch/internal/lancache"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(0.756); got != "75.6%" {
		t.Fatalf("formatPercent = %q, want 75.6%%", got)
	}
}

func TestFormatClock_HonorsPrefs(t *testing.T) {
	ts := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	got := formatClock(ts, lancache.SessionPrefs{Use24HourFormat: true})
	if got != "15:30:00" {
		t.Fatalf("24h clock = %q, want 15:30:00", got)
	}

	got = formatClock(ts, lancache.SessionPrefs{Use24HourFormat: false})
	if got != "3:30:00 PM" {
		t.Fatalf("12h clock = %q, want 3:30:00 PM", got)
	}

	if got := formatClock(time.Time{}, lancache.SessionPrefs{}); got != "-" {
		t.Fatalf("zero time = %q, want -", got)
	}
}
