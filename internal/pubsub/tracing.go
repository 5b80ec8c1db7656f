package pubsub

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "storefront/pubsub"

// TracingConfig selects whether bus spans are exported to Zipkin.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	ZipkinURL   string
}

// SetupTracing returns the tracer for the event bus and a shutdown func that
// flushes pending spans. Disabled tracing yields a no-op tracer.
func SetupTracing(config TracingConfig) (trace.Tracer, func(context.Context) error, error) {
	if !config.Enabled {
		return noop.NewTracerProvider().Tracer(tracerName), func(context.Context) error { return nil }, nil
	}

	exporter, err := zipkin.New(config.ZipkinURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create zipkin exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", config.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Tracer(tracerName), tp.Shutdown, nil
}

// traceContext carries span context through message metadata. GoChannel hands
// each subscriber a copy of the message, which drops its context.Context.
var traceContext = propagation.TraceContext{}

func spanAttributes(operation, topic string, wm *message.Message) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.message_id", wm.UUID),
		attribute.String("user.id", wm.Metadata.Get(metaUserID)),
		attribute.Int("messaging.message_payload_size_bytes", len(wm.Payload)),
	}
}

// startPublishSpan opens the publish span and injects it into wm's metadata.
func startPublishSpan(ctx context.Context, tracer trace.Tracer, topic string, wm *message.Message) trace.Span {
	ctx, span := tracer.Start(ctx, "pubsub.publish."+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(spanAttributes("publish", topic, wm)...),
	)
	traceContext.Inject(ctx, propagation.MapCarrier(wm.Metadata))
	wm.SetContext(ctx)
	return span
}

// startProcessSpan opens the handler span as a child of the publish span
// recorded in wm's metadata.
func startProcessSpan(ctx context.Context, tracer trace.Tracer, topic string, wm *message.Message) (context.Context, trace.Span) {
	ctx = traceContext.Extract(ctx, propagation.MapCarrier(wm.Metadata))
	return tracer.Start(ctx, "pubsub.process."+topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(spanAttributes("process", topic, wm)...),
	)
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
