package audit

import "log"

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink receives audit events; Logger is the gorm-backed one.
type Sink interface {
	Log(actorID *uint, action, entity, entityID string, metadata any) error
}

type Dispatcher struct {
	logger Sink
	queue  chan Event
}

func NewDispatcher(logger Sink) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// never let a full audit queue break a queue operation
		log.Println("audit queue full, dropping event")
	}
}
