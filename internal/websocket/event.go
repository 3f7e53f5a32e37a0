package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// EventType represents the type of event
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeRecorded EventType = "recorded"
	EventTypeUpdated  EventType = "updated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
	EntityTypeSubcategory EntityType = "subcategory"
	EntityTypeBalance     EntityType = "balance"
)

// Event represents a message pushed to clients watching a scope
// Format: { type, entity, scope, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.recorded"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Scope     string      `json:"scope"`     // Scope path the event was published on
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Scope paths name the part of the hierarchy a client is watching. A client
// subscribes on entering a view and unsubscribes (or disconnects) on leaving
// it; there is no global always-on subscription.

// ScopeCollection returns the scope path for a whole collection
func ScopeCollection(collection domain.Collection) string {
	return collection.String()
}

// ScopeCategory returns the scope path for one category
func ScopeCategory(collection domain.Collection, categoryID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", collection, categoryID)
}

// ScopeSubcategory returns the scope path for one subcategory
func ScopeSubcategory(collection domain.Collection, categoryID, subcategoryID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", collection, categoryID, subcategoryID)
}
