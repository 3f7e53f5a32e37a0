package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by watched scope path.
// It is safe for concurrent use
type Hub struct {
	// scopes maps a scope path to the clients watching it
	scopes map[string]map[string]ClientInterface
	// memberships maps a client ID to the scopes it watches, so a
	// disconnect releases everything at once
	memberships map[string]map[string]struct{}
	clients     map[string]ClientInterface
	mu          sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		scopes:      make(map[string]map[string]ClientInterface),
		memberships: make(map[string]map[string]struct{}),
		clients:     make(map[string]ClientInterface),
	}
}

// Register adds a connected client to the hub. The client watches nothing
// until it subscribes to a scope.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID()] = client
	h.memberships[client.ID()] = make(map[string]struct{})

	log.Debug().
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client and releases all its scope subscriptions
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()
	for scope := range h.memberships[clientID] {
		h.removeFromScope(scope, clientID)
	}
	delete(h.memberships, clientID)
	delete(h.clients, clientID)

	log.Debug().
		Str("client_id", clientID).
		Msg("WebSocket client unregistered")
}

// Subscribe starts delivering events published on the scope to the client
func (h *Hub) Subscribe(clientID, scope string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	if h.scopes[scope] == nil {
		h.scopes[scope] = make(map[string]ClientInterface)
	}
	h.scopes[scope][clientID] = client
	h.memberships[clientID][scope] = struct{}{}

	log.Debug().
		Str("client_id", clientID).
		Str("scope", scope).
		Msg("WebSocket scope subscribed")
}

// Unsubscribe stops delivering the scope's events to the client
func (h *Hub) Unsubscribe(clientID, scope string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromScope(scope, clientID)
	if m, ok := h.memberships[clientID]; ok {
		delete(m, scope)
	}
}

// SubscriberCount returns how many clients watch a scope
func (h *Hub) SubscriberCount(scope string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scopes[scope])
}

// removeFromScope must be called with the lock held
func (h *Hub) removeFromScope(scope, clientID string) {
	if clients, ok := h.scopes[scope]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.scopes, scope)
		}
	}
}

// Broadcast sends an event to all clients watching a scope
func (h *Hub) Broadcast(scope string, event Event) {
	event.Scope = scope

	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("scope", scope).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	watchers, ok := h.scopes[scope]
	if !ok || len(watchers) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy clients to avoid holding the lock during sends
	targets := make([]ClientInterface, 0, len(watchers))
	for _, client := range watchers {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.Send(data); err != nil {
			log.Debug().
				Err(err).
				Str("client_id", client.ID()).
				Str("scope", scope).
				Msg("Failed to send event, dropping client")
			h.Unregister(client)
			_ = client.Close()
		}
	}
}
