package event

import (
	"fmt"
	"log"
	"sync"
)

// Handler receives one event. Handlers run synchronously on the
// emitting goroutine, in subscription order.
type Handler func(Event)

// Bus dispatches events to subscribers. Emit fully drains all matching
// handlers before returning, so handlers may re-enter Emit; nested
// emits drain before the outer one continues. There is no queuing and
// no replay: a subscriber added during an emit does not see that emit.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic][]Handler
	logf func(format string, args ...any)
}

// NewBus returns an empty bus. logf receives handler panic reports;
// nil means log.Printf.
func NewBus(logf func(format string, args ...any)) *Bus {
	if logf == nil {
		logf = log.Printf
	}
	return &Bus{
		subs: make(map[Topic][]Handler),
		logf: logf,
	}
}

// Subscribe registers h for every future emit of topic. Registration
// order is dispatch order.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], h)
	b.mu.Unlock()
}

// Emit invokes every handler currently subscribed to ev's topic,
// synchronously and in subscription order. A panicking handler is
// reported through the bus logger and does not suppress the rest.
func (b *Bus) Emit(ev Event) {
	if ev == nil {
		return
	}
	b.mu.Lock()
	// Snapshot so handlers can subscribe or emit without corrupting
	// this dispatch pass.
	handlers := make([]Handler, len(b.subs[ev.Topic()]))
	copy(handlers, b.subs[ev.Topic()])
	b.mu.Unlock()

	for _, h := range handlers {
		b.dispatch(ev, h)
	}
}

func (b *Bus) dispatch(ev Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logf("event: handler for %s panicked: %v", ev.Topic(), r)
		}
	}()
	h(ev)
}

// UnsubscribeAll drops every subscription.
func (b *Bus) UnsubscribeAll() {
	b.mu.Lock()
	b.subs = make(map[Topic][]Handler)
	b.mu.Unlock()
}

// String implements fmt.Stringer for debug output.
func (b *Bus) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, hs := range b.subs {
		total += len(hs)
	}
	return fmt.Sprintf("event.Bus{topics: %d, handlers: %d}", len(b.subs), total)
}
