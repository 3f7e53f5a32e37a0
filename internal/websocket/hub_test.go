package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// fakeClient implements ClientInterface for hub tests
type fakeClient struct {
	id       string
	mu       sync.Mutex
	received [][]byte
	sendErr  error
	closed   bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{id: uuid.New().String()}
}

func (f *fakeClient) ID() string { return f.id }

func (f *fakeClient) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.received = append(f.received, data)
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.received
}

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()
	client := newFakeClient()
	hub.Register(client)

	scope := ScopeCollection(domain.CollectionReceitas)
	hub.Subscribe(client.ID(), scope)

	if got := hub.SubscriberCount(scope); got != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", got)
	}

	hub.Broadcast(scope, NewEvent(EventTypeRecorded, EntityTypeTransaction, nil))

	msgs := client.messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}

	var event Event
	if err := json.Unmarshal(msgs[0], &event); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}
	if event.Type != "transaction.recorded" {
		t.Errorf("Expected type transaction.recorded, got %s", event.Type)
	}
	if event.Scope != "receitas" {
		t.Errorf("Expected scope receitas, got %s", event.Scope)
	}
}

func TestHub_UnsubscribedClientReceivesNothing(t *testing.T) {
	hub := NewHub()
	watcher := newFakeClient()
	bystander := newFakeClient()
	hub.Register(watcher)
	hub.Register(bystander)

	categoryID := uuid.New()
	scope := ScopeCategory(domain.CollectionDespesas, categoryID)
	hub.Subscribe(watcher.ID(), scope)

	hub.Broadcast(scope, NewEvent(EventTypeCreated, EntityTypeSubcategory, nil))

	if len(watcher.messages()) != 1 {
		t.Errorf("Expected watcher to receive the event")
	}
	if len(bystander.messages()) != 0 {
		t.Errorf("Expected bystander to receive nothing")
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := newFakeClient()
	hub.Register(client)

	scope := ScopeCollection(domain.CollectionCampanhas)
	hub.Subscribe(client.ID(), scope)
	hub.Unsubscribe(client.ID(), scope)

	hub.Broadcast(scope, NewEvent(EventTypeRecorded, EntityTypeTransaction, nil))

	if len(client.messages()) != 0 {
		t.Errorf("Expected no messages after unsubscribe, got %d", len(client.messages()))
	}
	if got := hub.SubscriberCount(scope); got != 0 {
		t.Errorf("Expected 0 subscribers, got %d", got)
	}
}

func TestHub_UnregisterReleasesAllScopes(t *testing.T) {
	hub := NewHub()
	client := newFakeClient()
	hub.Register(client)

	collectionScope := ScopeCollection(domain.CollectionReceitas)
	categoryScope := ScopeCategory(domain.CollectionReceitas, uuid.New())
	hub.Subscribe(client.ID(), collectionScope)
	hub.Subscribe(client.ID(), categoryScope)

	hub.Unregister(client)

	if hub.SubscriberCount(collectionScope) != 0 || hub.SubscriberCount(categoryScope) != 0 {
		t.Error("Expected all scope subscriptions released on unregister")
	}
}

func TestHub_FailedSendDropsClient(t *testing.T) {
	hub := NewHub()
	client := newFakeClient()
	client.sendErr = ErrClientClosed
	hub.Register(client)

	scope := ScopeCollection(domain.CollectionDepartamentos)
	hub.Subscribe(client.ID(), scope)

	hub.Broadcast(scope, NewEvent(EventTypeRecorded, EntityTypeTransaction, nil))

	if hub.SubscriberCount(scope) != 0 {
		t.Error("Expected failed client removed from scope")
	}
	if !client.closed {
		t.Error("Expected failed client to be closed")
	}
}

func TestScopePaths(t *testing.T) {
	categoryID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	subcategoryID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	if got := ScopeCollection(domain.CollectionReceitas); got != "receitas" {
		t.Errorf("Unexpected collection scope %s", got)
	}
	if got := ScopeCategory(domain.CollectionReceitas, categoryID); got != "receitas/11111111-1111-1111-1111-111111111111" {
		t.Errorf("Unexpected category scope %s", got)
	}
	want := "receitas/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222"
	if got := ScopeSubcategory(domain.CollectionReceitas, categoryID, subcategoryID); got != want {
		t.Errorf("Unexpected subcategory scope %s", got)
	}
}
