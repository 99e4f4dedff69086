package json

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/multilang-experiments/internal/storage"
)

type Event struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func newEvent(i int) Event {
	return Event{
		Name:  "test",
		ID:    uuid.New().String(),
		Index: i,
	}
}

func TestRegistry_Add(t *testing.T) {

	registry := NewEventRegistry(t.TempDir())

	k := storage.K{
		Group: "events",
		Label: "results",
	}

	events := make([]Event, 0)
	for i := 0; i < 10; i++ {
		ev := newEvent(i)
		events = append(events, ev)
		err := registry.Add(k, ev)
		assert.NoError(t, err)
	}

	var loadedEvents []Event
	err := registry.GetAll(k, &loadedEvents)
	require.NoError(t, err)

	assert.Equal(t, 10, len(loadedEvents))
	for i, ev := range events {
		assert.Equal(t, ev, loadedEvents[i])
	}

	var missing []Event
	err = registry.GetAll(storage.K{Group: "events", Label: "other"}, &missing)
	assert.NoError(t, err)
	assert.Empty(t, missing)

	err = registry.GetAll(k, &Event{})
	assert.Error(t, err)
}
