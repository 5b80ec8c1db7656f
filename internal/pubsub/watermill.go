package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Reserved metadata keys. Everything else in Message.Metadata passes through.
const (
	metaUserID      = "user_id"
	metaTopic       = "topic"
	metaPublishedAt = "published_at"
)

// subscriberBuffer is the per-subscriber queue depth.
const subscriberBuffer = 64

// WatermillBridge implements Publisher and Subscriber on watermill's GoChannel.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	tracer  trace.Tracer
}

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*WatermillBridge)

// WithTracer records a span per publish and per handled message.
func WithTracer(tracer trace.Tracer) BridgeOption {
	return func(wb *WatermillBridge) { wb.tracer = tracer }
}

// NewWatermillBridge initializes the in-process event bus. Events published
// while no subscriber is listening are dropped.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	wb := &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: subscriberBuffer},
			watermill.NewStdLogger(false, false),
		),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(wb)
	}
	return wb
}

func toWatermill(msg Message) *message.Message {
	wm := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wm.Metadata.Set(k, v)
	}
	wm.Metadata.Set(metaTopic, msg.Topic)
	wm.Metadata.Set(metaUserID, msg.UserID)
	wm.Metadata.Set(metaPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))
	return wm
}

func fromWatermill(wm *message.Message) Message {
	msg := Message{
		Topic:    wm.Metadata.Get(metaTopic),
		UserID:   wm.Metadata.Get(metaUserID),
		Payload:  wm.Payload,
		Metadata: make(map[string]string, len(wm.Metadata)),
	}
	for k, v := range wm.Metadata {
		if k == metaTopic {
			continue
		}
		msg.Metadata[k] = v
	}
	return msg
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return errors.New("pubsub: message topic is required")
	}
	wm := toWatermill(msg)
	span := startPublishSpan(ctx, wb.tracer, msg.Topic, wm)
	defer span.End()

	err := wb.channel.Publish(msg.Topic, wm)
	recordError(span, err)
	return err
}

// Subscribe implements the Subscriber interface. Handler failures are logged
// and acked; the in-process bus does not redeliver.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wm := range messages {
			spanCtx, span := startProcessSpan(ctx, wb.tracer, topic, wm)
			err := handler(spanCtx, fromWatermill(wm))
			if err != nil {
				slog.ErrorContext(spanCtx, "Failed to handle message", "event", "pubsub_handler_failed",
					"topic", topic,
					"msg_id", wm.UUID,
					"error", err,
				)
			}
			recordError(span, err)
			span.End()
			wm.Ack()
		}
		slog.Debug("Subscription message loop ended", "event", "pubsub_unsubscribed", "topic", topic)
	}()
	return nil
}

// Close stops every subscription and rejects further publishing.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}
