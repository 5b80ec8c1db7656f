package testutils

import (
	"context"
	"sync"

	"github.com/nfrund/storefront/internal/pubsub"
)

// RecordingPublisher is a pubsub.Publisher that keeps every message.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
	Err      error
}

var _ pubsub.Publisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Topics returns the topics published so far, in order.
func (p *RecordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		topics = append(topics, m.Topic)
	}
	return topics
}

// Messages returns a copy of the published messages.
func (p *RecordingPublisher) Messages() []pubsub.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pubsub.Message(nil), p.messages...)
}
