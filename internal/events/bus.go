package events

import (
	"sync"

	"glossa/internal/ports"
)

// Bus is an in-process broadcast of refresh signals. Each subscriber gets
// its own buffered channel; a subscriber that stops draining loses events
// rather than blocking the emitter. Both paths the consumers converge on
// (poll and push) are idempotent reads, so a dropped event is only a delay.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscription
}

type subscription struct {
	names map[string]struct{}
	ch    chan ports.Event
}

func NewBus() *Bus {
	return &Bus{subs: map[int]*subscription{}}
}

var _ ports.EventEmitter = (*Bus)(nil)
var _ ports.EventSource = (*Bus)(nil)

// Subscribe returns a channel receiving events with any of the given names,
// or all events when no names are given, plus a cancel function.
func (b *Bus) Subscribe(names ...string) (<-chan ports.Event, func()) {
	sub := &subscription{ch: make(chan ports.Event, 16)}
	if len(names) > 0 {
		sub.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			sub.names[n] = struct{}{}
		}
	}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.names != nil {
			if _, ok := sub.names[name]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- ports.Event{Name: name, Payload: payload}:
		default:
		}
	}
}
