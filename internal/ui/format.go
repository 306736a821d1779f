package ui

import (
	"fmt"
	"time"

	"github.com/cachewatch/cachewatch/internal/lancache"
)

// formatBytes renders a byte count in binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatPercent renders a 0..1 ratio as a percentage.
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// clockLayout returns the time layout honoring the session's hour format.
func clockLayout(use24 bool) string {
	if use24 {
		return "15:04:05"
	}
	return "3:04:05 PM"
}

// formatClock renders ts according to the session preferences: local or
// server-side wall clock, 24- or 12-hour format.
func formatClock(ts time.Time, prefs lancache.SessionPrefs) string {
	if ts.IsZero() {
		return "-"
	}
	if prefs.UseLocalTimezone {
		ts = ts.Local()
	}
	return ts.Format(clockLayout(prefs.Use24HourFormat))
}

// formatAge renders a compact "time since" string.
func formatAge(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	d := time.Since(ts)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
