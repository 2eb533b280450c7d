// Package events provides the in-process change feed behind the SSE endpoint.
// Every table write publishes an Event; subscribers receive the events for
// one table, optionally narrowed to a single cash box.
package events

import (
	"sync"
)

// Action values mirror the database operation that triggered the event.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type Event struct {
	Table     string `json:"table"`
	Action    string `json:"action"`
	ID        string `json:"id"`
	CashBoxID uint   `json:"cash_box_id,omitempty"`
}

type Filter struct {
	Table     string
	CashBoxID uint // 0 matches every box
}

func (f Filter) matches(e Event) bool {
	if f.Table != e.Table {
		return false
	}
	if f.CashBoxID != 0 && f.CashBoxID != e.CashBoxID {
		return false
	}
	return true
}

type subscriber struct {
	filter Filter
	ch     chan Event
}

// Hub fans out events to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event, clients reconcile by refetching.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a listener for events matching f. The returned cancel
// func must be called to release the subscription.
func (h *Hub) Subscribe(f Filter) (<-chan Event, func()) {
	s := &subscriber{filter: f, ch: make(chan Event, 16)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.ch)
		})
	}
	return s.ch, cancel
}

func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.filter.matches(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}
