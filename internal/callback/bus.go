// Package callback implements the process-wide channel for observed URLs.
//
// Any part of the shell may publish a URL it observes onto the [Bus]: deep
// links delivered by the OS, redirects re-posted by a native authentication
// session, or navigations seen by the embedded browser view. Subscribers
// decide for themselves whether a URL concerns them; the bus carries no state
// and applies no filtering.
package callback

import "sync"

// Bus is a process-wide publish/subscribe channel for observed URL strings.
//
// The zero value is ready to use. Subscriptions last for the process lifetime;
// there is no unsubscribe.
type Bus struct {
	mu   sync.RWMutex
	subs []func(raw string)
}

// Subscribe registers fn to receive every URL published on the bus.
func (b *Bus) Subscribe(fn func(raw string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers raw to all subscribers, synchronously and in subscription
// order.
func (b *Bus) Publish(raw string) {
	b.mu.RLock()
	subs := make([]func(string), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(raw)
	}
}
