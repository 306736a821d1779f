package optimistic

// Guard keys for the two booleans behind the timezone display setting.
// Snapshot correction and the compound setter below must agree on these.
const (
	KeyUseLocalTimezone = "prefs.useLocalTimezone"
	KeyUse24HourFormat  = "prefs.use24HourFormat"
)

// TimezoneMode is the user-facing composite timezone setting. Each mode is a
// combination of two independent booleans: which clock to display times in,
// and whether to use a 24-hour format.
type TimezoneMode string

const (
	TimezoneLocal24  TimezoneMode = "local-24h"
	TimezoneLocal12  TimezoneMode = "local-12h"
	TimezoneServer24 TimezoneMode = "server-24h"
	TimezoneServer12 TimezoneMode = "server-12h"
)

// split decomposes a mode into its two booleans. ok is false for unknown tags.
func (m TimezoneMode) split() (useLocal, use24 bool, ok bool) {
	switch m {
	case TimezoneLocal24:
		return true, true, true
	case TimezoneLocal12:
		return true, false, true
	case TimezoneServer24:
		return false, true, true
	case TimezoneServer12:
		return false, false, true
	}
	return false, false, false
}

// ModeFor returns the composite tag for a boolean pair.
func ModeFor(useLocal, use24 bool) TimezoneMode {
	switch {
	case useLocal && use24:
		return TimezoneLocal24
	case useLocal:
		return TimezoneLocal12
	case use24:
		return TimezoneServer24
	}
	return TimezoneServer12
}

// SetPendingTimezone decomposes mode into the two underlying boolean keys and
// pends each one independently, each with its own cooldown. Unknown or empty
// modes are ignored.
func (g *Guard) SetPendingTimezone(mode TimezoneMode) {
	useLocal, use24, ok := mode.split()
	if !ok {
		return
	}
	g.Set(KeyUseLocalTimezone, useLocal)
	g.Set(KeyUse24HourFormat, use24)
}

// CorrectTimezone reconciles an incoming boolean pair against the two guards
// independently. One key expiring or converging has no effect on the other.
func (g *Guard) CorrectTimezone(incomingLocal, incoming24 bool) (useLocal, use24 bool) {
	return CorrectBool(g, KeyUseLocalTimezone, incomingLocal),
		CorrectBool(g, KeyUse24HourFormat, incoming24)
}

// CorrectBool is a typed convenience over Correct. A pending value of a
// different dynamic type never matches the incoming value, so in that case
// the incoming value is kept.
func CorrectBool(g *Guard, key string, incoming bool) bool {
	if v, ok := g.Correct(key, incoming).(bool); ok {
		return v
	}
	return incoming
}

// CorrectInt resolves an incoming int preference the same way as CorrectBool.
func CorrectInt(g *Guard, key string, incoming int) int {
	if v, ok := g.Correct(key, incoming).(int); ok {
		return v
	}
	return incoming
}
