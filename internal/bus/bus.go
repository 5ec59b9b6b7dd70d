package bus

import "context"

// The change bus carries "queue changed" signals from the admission
// controller and state machine to the live fan-out. Signals carry no
// payload; subscribers reload the full snapshot, so a lost or
// duplicated signal is harmless.

type Publisher interface {
	Publish(ctx context.Context) error
}

type Subscriber interface {
	Subscribe(ctx context.Context) <-chan struct{}
}
