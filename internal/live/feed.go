package live

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/BruksfildServices01/walkin-queue/internal/bus"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// Snapshotter is the slice of the repository the feed needs: the full
// active set, delivered as a complete snapshot.
type Snapshotter interface {
	ActiveEntries(ctx context.Context) ([]models.QueueEntry, error)
}

const (
	defaultResync = 30 * time.Second

	snapshotRetries   = 3
	snapshotBaseDelay = 100 * time.Millisecond
)

// Feed turns store change signals into recomputed per-observer views.
// Every refresh is a pure function of the latest snapshot, so duplicate
// or out-of-order signals just repeat the same delivery.
type Feed struct {
	store   Snapshotter
	hub     *Hub
	changes bus.Subscriber
	resync  time.Duration
}

func NewFeed(store Snapshotter, hub *Hub, changes bus.Subscriber) *Feed {
	return &Feed{
		store:   store,
		hub:     hub,
		changes: changes,
		resync:  defaultResync,
	}
}

func (f *Feed) Run(ctx context.Context) {
	signals := f.changes.Subscribe(ctx)

	ticker := time.NewTicker(f.resync)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			f.Refresh(ctx)
		case <-ticker.C:
			// resync covers signals lost while the bus was down
			f.Refresh(ctx)
		}
	}
}

// Refresh loads the active set and recomputes every observer's view.
func (f *Feed) Refresh(ctx context.Context) {
	entries, err := f.loadSnapshot(ctx)
	if err != nil {
		log.Println("live feed snapshot:", err)
		return
	}

	var staffPayload []byte

	for _, o := range f.hub.Observers() {
		var payload []byte
		switch o.Kind {
		case KindStaff:
			if staffPayload == nil {
				staffPayload, err = json.Marshal(StaffTable(entries))
				if err != nil {
					log.Println("live feed marshal:", err)
					continue
				}
			}
			payload = staffPayload
		case KindCustomer:
			payload, err = json.Marshal(CustomerView(entries, o.CustomerID))
			if err != nil {
				log.Println("live feed marshal:", err)
				continue
			}
		default:
			continue
		}
		f.hub.Deliver(o, payload)
	}
}

func (f *Feed) loadSnapshot(ctx context.Context) ([]models.QueueEntry, error) {
	var lastErr error
	for attempt := 0; attempt < snapshotRetries; attempt++ {
		entries, err := f.store.ActiveEntries(ctx)
		if err == nil {
			return entries, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(snapshotBaseDelay << attempt):
		}
	}
	return nil, lastErr
}
