package event

import "go.uber.org/zap"

// Dispatcher hands events to the notification collaborator. Publishing must
// never block or fail the request that produced the event.
type Dispatcher interface {
	Publish(e Event)
}

// LogDispatcher queues events to a background goroutine that logs delivery.
// It stands in for the real notification sender (email, push) which lives
// outside this service.
type LogDispatcher struct {
	log  *zap.Logger
	ch   chan Event
	done chan struct{}
}

func NewLogDispatcher(log *zap.Logger, buffer int) *LogDispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &LogDispatcher{
		log:  log,
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *LogDispatcher) run() {
	defer close(d.done)
	for e := range d.ch {
		d.log.Info("event dispatched",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Time("occurred_at", e.OccurredAt),
		)
	}
}

// Publish is fire-and-forget: if the queue is full the event is dropped with
// a warning rather than stalling checkout or payment.
func (d *LogDispatcher) Publish(e Event) {
	select {
	case d.ch <- e:
	default:
		d.log.Warn("event queue full, dropping event",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
		)
	}
}

// Close drains the queue and stops the worker.
func (d *LogDispatcher) Close() {
	close(d.ch)
	<-d.done
}
