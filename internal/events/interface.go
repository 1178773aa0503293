package events

// Publisher emits domain events for external collaborators (notifications,
// analytics). Publishing is fire-and-forget from the engine's point of view:
// failures are logged, never surfaced to the submitting caller.
type Publisher interface {
	Publish(topic EventType, data any) error
}

// Noop discards every event. Used when no Pub/Sub project is configured.
type Noop struct{}

func (Noop) Publish(EventType, any) error { return nil }
