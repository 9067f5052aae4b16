// Package events is the in-process publish/subscribe bus for client-state
// changes.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

const TopicCartChanged = "cart:changed"

// CartChanged is published after every persisted cart mutation.
type CartChanged struct {
	ClientID  string `json:"client_id"`
	ItemCount int    `json:"item_count"`
	Quantity  int    `json:"quantity"`
}

// Bus wraps EventBus with typed topics.
type Bus struct {
	bus evbus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// PublishCartChanged delivers the event to subscribers. Async subscribers
// run on their own goroutines.
func (b *Bus) PublishCartChanged(evt CartChanged) {
	b.bus.Publish(TopicCartChanged, evt)
}

// SubscribeCartChanged registers fn for cart changes. The returned func
// removes the subscription.
func (b *Bus) SubscribeCartChanged(fn func(CartChanged), async bool) (func(), error) {
	var err error
	if async {
		err = b.bus.SubscribeAsync(TopicCartChanged, fn, false)
	} else {
		err = b.bus.Subscribe(TopicCartChanged, fn)
	}
	if err != nil {
		return nil, err
	}
	return func() { _ = b.bus.Unsubscribe(TopicCartChanged, fn) }, nil
}

// WaitAsync blocks until async handlers have finished.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
