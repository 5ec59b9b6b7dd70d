package live

import (
	"log"
	"sync"
)

type ObserverKind string

const (
	KindCustomer ObserverKind = "customer"
	KindStaff    ObserverKind = "staff"
)

// Observer is one connected session: a customer watching their own
// position, or a staff screen watching the whole board.
type Observer struct {
	ID         string
	Kind       ObserverKind
	CustomerID uint
	Send       chan []byte
}

type Hub struct {
	mu        sync.RWMutex
	observers map[string]*Observer
}

func NewHub() *Hub {
	return &Hub{observers: make(map[string]*Observer)}
}

func (h *Hub) Register(o *Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[o.ID] = o
}

func (h *Hub) Unregister(o *Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.observers[o.ID]; !ok {
		return
	}
	delete(h.observers, o.ID)
	close(o.Send)
}

// Observers returns a snapshot of the registered set so delivery can
// happen outside the lock.
func (h *Hub) Observers() []*Observer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Observer, 0, len(h.observers))
	for _, o := range h.observers {
		out = append(out, o)
	}
	return out
}

// Deliver pushes a payload without ever blocking the fan-out; a slow
// observer just misses a frame and catches up on the next snapshot.
// The read lock excludes Unregister, so an observer that disconnected
// after the Observers snapshot was taken is skipped instead of sent to
// on a closed channel.
func (h *Hub) Deliver(o *Observer, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.observers[o.ID]; !ok {
		return
	}
	select {
	case o.Send <- payload:
	default:
		log.Printf("drop view update for observer %s", o.ID)
	}
}
