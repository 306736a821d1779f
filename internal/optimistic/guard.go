package optimistic

import (
	"sync"
	"time"
)

// Cooldown is how long a locally-set preference value shields the key from
// conflicting server snapshots. It bounds the worst-case flicker window to a
// fixed duration regardless of actual save/broadcast latency.
const Cooldown = 2 * time.Second

// entry is the most recent unconfirmed local write for a key.
type entry struct {
	value   any
	setTime time.Time
}

// Guard holds in-flight locally-set preference values and reconciles them
// against values arriving from server snapshots.
//
// When the user changes a preference, the UI calls Set before firing the save
// request. Until the entry expires, Correct answers any snapshot field for the
// same key with the local value, so a broadcast computed before the save
// landed cannot visibly snap the control back.
//
// Values must be comparable scalars (bool, string, numbers, nil); equality is
// Go interface equality, so value and type must both match. Entries expire
// lazily: there is no background sweep, an expired entry is removed the first
// time it is read.
type Guard struct {
	mu        sync.Mutex
	entries   map[string]entry
	listeners map[int]func()
	nextID    int
	now       func() time.Time // injectable for deterministic tests
}

// NewGuard returns an empty Guard ready for use from multiple goroutines.
func NewGuard() *Guard {
	return NewGuardWithClock(time.Now)
}

// NewGuardWithClock is NewGuard with an injected time source, so tests can
// step through the cooldown deterministically.
func NewGuardWithClock(now func() time.Time) *Guard {
	return &Guard{
		entries:   make(map[string]entry),
		listeners: make(map[int]func()),
		now:       now,
	}
}

// Set records value as the pending local value for key and restarts the
// cooldown clock, even when the value is unchanged. Repeated interaction with
// a control during the cooldown keeps extending the protection window.
// Subscribers are notified after the entry is stored.
func (g *Guard) Set(key string, value any) {
	g.mu.Lock()
	g.entries[key] = entry{value: value, setTime: g.now()}
	fns := make([]func(), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	// Listeners run outside the lock so they may call back into the guard.
	for _, fn := range fns {
		fn()
	}
}

// Has reports whether a live pending entry exists for key. An entry found
// expired is removed before returning false.
func (g *Guard) Has(key string) bool {
	_, ok := g.Get(key)
	return ok
}

// Get returns the live pending value for key. An entry found expired is
// removed and reported as absent. A live hit has no side effects.
func (g *Guard) Get(key string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[key]
	if !ok {
		return nil, false
	}
	if g.now().Sub(e.setTime) >= Cooldown {
		delete(g.entries, key)
		return nil, false
	}
	return e.value, true
}

// Correct resolves an incoming snapshot value against any live pending value
// for the same key. With no live entry the incoming value wins. A live entry
// that differs from incoming overrides it. When the two have converged the
// incoming value is returned but the entry is deliberately not cleared: a
// later divergent snapshot arriving before expiry is still overridden.
func (g *Guard) Correct(key string, incoming any) any {
	pending, ok := g.Get(key)
	if !ok {
		return incoming
	}
	if pending != incoming {
		return pending
	}
	return incoming
}

// Subscribe registers fn to be called after every Set. The returned function
// removes the registration. No ordering is guaranteed among listeners, and
// reads never trigger a notification.
func (g *Guard) Subscribe(fn func()) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}
