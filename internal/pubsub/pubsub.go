package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "order.placed").
	Topic string
	// UserID identifies the user whose action produced the message.
	UserID string
	// Payload contains the encoded event.
	Payload []byte
	// Metadata carries request-scoped context such as the request id.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic in the background and
	// returns once the subscription is live. It stops when ctx is canceled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
