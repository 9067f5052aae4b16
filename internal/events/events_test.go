package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_CartChanged(t *testing.T) {
	bus := NewBus()

	var got []CartChanged
	unsubscribe, err := bus.SubscribeCartChanged(func(evt CartChanged) {
		got = append(got, evt)
	}, false)
	require.NoError(t, err)

	bus.PublishCartChanged(CartChanged{ClientID: "c1", ItemCount: 3, Quantity: 4})
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ClientID)
	assert.Equal(t, 4, got[0].Quantity)

	unsubscribe()
	bus.PublishCartChanged(CartChanged{ClientID: "c1"})
	assert.Len(t, got, 1)
}

func TestBus_Async(t *testing.T) {
	bus := NewBus()

	done := make(chan CartChanged, 1)
	_, err := bus.SubscribeCartChanged(func(evt CartChanged) { done <- evt }, true)
	require.NoError(t, err)

	bus.PublishCartChanged(CartChanged{ClientID: "c2", ItemCount: 1})
	bus.WaitAsync()
	assert.Equal(t, "c2", (<-done).ClientID)
}
