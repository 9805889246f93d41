package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("req-1", TypeShelterAdded, 1, map[string]string{"shelter_id": "42"})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, TypeShelterAdded, e.Type)
	assert.Equal(t, "req-1", e.RequestID)
	assert.NotEmpty(t, e.ID)
	assert.JSONEq(t, `{"shelter_id":"42"}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Publish("x")
	assert.Equal(t, "x", <-a)
	assert.Equal(t, "x", <-b)

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, h.Subscribers())
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("e")
	}
	assert.Len(t, ch, cap(ch))

	var nilHub *Hub
	assert.NotPanics(t, func() { nilHub.Publish("e") })
}
