package eventbus

import "sync"

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus is a simple publish/subscribe bus decoupling the planner from the
// adapters interested in finished plans.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the default EventBus implementation fanning events out to buffered
// subscriber channels. Delivery is non-blocking: a slow subscriber drops
// events rather than stalling the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	ids    map[<-chan Event]int
	closed bool
}

// New creates a new Bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event), ids: make(map[<-chan Event]int)}
}

// Publish sends the event to all subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.ids[ch] = id
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.ids[sub]
	if !ok {
		return
	}
	delete(b.ids, sub)
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		if !b.closed {
			close(ch)
		}
	}
}

// Close closes all subscriber channels and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.ids = make(map[<-chan Event]int)
}
