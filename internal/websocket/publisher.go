package websocket

// EventPublisher defines the interface for publishing events to clients
// watching a scope
type EventPublisher interface {
	// Publish sends an event to all clients subscribed to the scope path
	Publish(scope string, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the scope
func (h *Hub) Publish(scope string, event Event) {
	h.Broadcast(scope, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when
// WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(scope string, event Event) {}
