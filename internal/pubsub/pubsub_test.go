package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_RoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{
		Topic:    "test.topic",
		UserID:   "u1",
		Payload:  []byte("hello"),
		Metadata: map[string]string{"request_id": "r1"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "u1", msg.UserID)
		assert.Equal(t, []byte("hello"), msg.Payload)
		assert.Equal(t, "r1", msg.Metadata["request_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestWatermillBridge_RequiresTopic(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	assert.Error(t, bridge.Publish(context.Background(), Message{Payload: []byte("x")}))
}

func TestTypedEvent_RoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.OrderPlaced, 1)
	require.NoError(t, Subscribe(ctx, bridge, OrderPlaced, func(ctx context.Context, e domain.OrderPlaced) error {
		received <- e
		return nil
	}))

	want := domain.OrderPlaced{OrderID: "o1", UserID: "u1", Email: "a@example.com", Total: "12.50", Items: 2}
	require.NoError(t, Publish(ctx, bridge, OrderPlaced, "u1", want))

	select {
	case got := <-received:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillBridge_StampsPublishTime(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "stamp.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	before := time.Now().UTC()
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "stamp.topic", Payload: []byte("{}")}))

	select {
	case msg := <-received:
		stamp, err := time.Parse(time.RFC3339Nano, msg.Metadata["published_at"])
		require.NoError(t, err)
		assert.False(t, stamp.Before(before.Add(-time.Second)))
		_, hasTopic := msg.Metadata["topic"]
		assert.False(t, hasTopic, "topic is carried on the message, not in metadata")
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}
