// Package bus provides the process-wide change notification channel.
//
// The store has exactly one cross-cutting event: the underlying database
// file was replaced wholesale (restore from backup). Read models cannot
// know what changed, so the only sensible reaction is "drop everything
// and reload". The bus therefore carries a single event kind and makes
// no delivery promises beyond invoking every currently registered
// subscriber synchronously, in registration order, once per publish.
package bus

import "sync"

// Event identifies a bus event kind
type Event string

// EventRestored signals that the database file was replaced wholesale
const EventRestored Event = "RESTORED"

// Handler is invoked synchronously for each published event
type Handler func(Event)

// Bus is an in-process observer registry
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Handler
}

// New creates an empty bus
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler and returns an unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes all registered handlers in registration order.
// Delivery is synchronous and best-effort: nothing is persisted, and a
// subscriber registered after Publish returns never sees the event.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, len(b.subs))
	for i, s := range b.subs {
		handlers[i] = s.fn
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// SubscriberCount returns the number of registered subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
