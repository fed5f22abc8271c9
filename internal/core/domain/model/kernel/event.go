package kernel

import "time"

// StatusChanged is emitted by an aggregate on every successful transition.
type StatusChanged struct {
	AggregateID   UUID
	AggregateKind string
	From          string
	To            string
	OccurredAt    time.Time
}

// EventRecorder buffers status changes until the unit of work publishes them.
// Aggregates embed it by value.
type EventRecorder struct {
	events []StatusChanged
}

func (r *EventRecorder) Record(event StatusChanged) {
	r.events = append(r.events, event)
}

// PullEvents returns the buffered events and clears the buffer.
func (r *EventRecorder) PullEvents() []StatusChanged {
	events := r.events
	r.events = nil
	return events
}
