// Package event provides a synchronous in-process pub-sub bus connecting
// the session layer to its consumers (TUI, notifications) without direct
// dependencies between them.
package event

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler receives a published event.
type Handler func(Event)

// Bus dispatches events to subscribed handlers synchronously, in
// subscription order. A panicking handler is recovered and logged so one
// bad subscriber cannot starve the rest.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber // event type -> subscribers, "*" = all
}

type subscriber struct {
	id      uint64
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers handler for events of the given type and returns an
// id usable with Unsubscribe. Use "*" to receive every event.
func (b *Bus) Subscribe(eventType string, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[eventType] = append(b.subs[eventType], subscriber{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a subscription. Returns false if the id is unknown.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subs {
		for i, sub := range subs {
			if sub.id == id {
				b.subs[eventType] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish delivers ev to all handlers subscribed to its type, then to the
// wildcard handlers. Delivery is synchronous; handlers run on the caller's
// goroutine.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.EventType()])+len(b.subs["*"]))
	for _, sub := range b.subs[ev.EventType()] {
		handlers = append(handlers, sub.handler)
	}
	for _, sub := range b.subs["*"] {
		handlers = append(handlers, sub.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		dispatch(h, ev)
	}
}

func dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked",
				"event_type", ev.EventType(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	h(ev)
}
