package event

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(raw any)

type queued struct {
	name string
	evt  any
}

// Bus queues events from any goroutine and delivers them on whichever
// goroutine calls Dispatch, so handlers can mutate single-owner state.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]HandlerFunc
	pending  []queued
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
	}
}

func (b *Bus) Subscribe(eventName string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish enqueues evt; nothing runs until the next Dispatch.
func (b *Bus) Publish(eventName string, evt any) {
	b.mu.Lock()
	b.pending = append(b.pending, queued{name: eventName, evt: evt})
	b.mu.Unlock()
}

// Dispatch delivers every event queued so far, in publish order, and returns
// how many were delivered. Events published by handlers wait for the next call.
func (b *Bus) Dispatch() int {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, q := range batch {
		b.mu.Lock()
		handlers := make([]HandlerFunc, len(b.handlers[q.name]))
		copy(handlers, b.handlers[q.name])
		b.mu.Unlock()

		for _, h := range handlers {
			b.call(q.name, h, q.evt)
		}
	}
	return len(batch)
}

func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Bus) call(eventName string, h HandlerFunc, evt any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked", "event", eventName, "panic", r)
		}
	}()
	h(evt)
}
