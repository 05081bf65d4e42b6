package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	first := b.Subscribe()
	second := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish(&Event{Type: EventMetricAdded, Metadata: map[string]string{"type": "cpu"}})

	for _, sub := range []Subscriber{first, second} {
		select {
		case ev := <-sub:
			assert.Equal(t, EventMetricAdded, ev.Type)
			assert.False(t, ev.Timestamp.IsZero())
			_, err := uuid.Parse(ev.ID)
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	b.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)
	assert.Zero(t, b.SubscriberCount())
}

func TestNewEventKeepsID(t *testing.T) {
	ev := NewEvent(EventConfigUpdated, "write-attribute", nil)
	id := ev.ID
	require.NotEmpty(t, id)

	b := NewBroker()
	b.Stop()
	b.Stop()
	b.Publish(ev)
	assert.Equal(t, id, ev.ID)
}
