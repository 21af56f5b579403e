package watchlist

import (
	"sync"
	"time"

	"marketwatch/internal/metrics"
)

// Kind names one of the three collections.
type Kind string

const (
	KindStocks      Kind = "stocks"
	KindForex       Kind = "forex"
	KindCommodities Kind = "commodities"
)

// Op names the operation that produced an event.
type Op string

const (
	OpFetch   Op = "fetch"
	OpRemove  Op = "remove"
	OpRefresh Op = "refresh"
)

// Event reports a finished operation on one collection. Err is nil on
// success; Error carries its text for serialization.
type Event struct {
	Kind  Kind      `json:"kind"`
	Op    Op        `json:"op"`
	Key   string    `json:"key,omitempty"`
	Size  int       `json:"size"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
	Err   error     `json:"-"`
}

// broker fans events out to subscribers without ever blocking the publisher.
type broker struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	next    int
	closed  bool
	metrics *metrics.Metrics
}

func newBroker(m *metrics.Metrics) *broker {
	return &broker{subs: make(map[int]chan Event), metrics: m}
}

func (b *broker) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broker) publish(ev Event) {
	if ev.Err != nil {
		ev.Error = ev.Err.Error()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.metrics.DropEvent()
		}
	}
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
