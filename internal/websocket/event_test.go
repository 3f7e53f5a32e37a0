package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventTypeRecorded, EntityTypeTransaction, map[string]string{"titulo": "Oferta"})

	assert.Equal(t, "transaction.recorded", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventToJSON(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeCategory, map[string]string{"nome": "Missões"})
	event.Scope = ScopeCollection(domain.CollectionCampanhas)

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "category.created", decoded["type"])
	assert.Equal(t, "campanhas", decoded["scope"])

	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Missões", payload["nome"])
}
