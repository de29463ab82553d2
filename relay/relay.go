// Package relay mirrors one message type from a bus onto an external broker.
//
// A relay is an ordinary subscriber: it receives each published T inline and
// forwards it through a cbus.Exporter. It is one-way and adds no inbound path,
// so an export failure surfaces from Publish like any other handler fault.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"

	"github.com/google/uuid"
	"github.com/next-trace/scg-component-bus/component"
	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

const (
	HeaderMessageID   = "x-message-id"
	HeaderMessageType = "x-message-type"

	topicPrefix = "bus."
)

// Options configures a Relay. The zero value is usable.
type Options[T any] struct {
	// Topic overrides the export topic for every message.
	Topic string
	// Key derives a partition/routing key from a message.
	Key func(T) string
	// Headers are added to every export.
	Headers map[string]string
	// Propagator injects tracing context into the headers.
	Propagator cbus.HeaderPropagator
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Relay forwards every T published on a bus to an Exporter.
type Relay[T any] struct {
	exporter cbus.Exporter
	opts     Options[T]
	msgType  reflect.Type
	life     *component.Lifecycle
	receiver *cbus.Receiver[T]
}

// Attach subscribes a relay for T on b.
func Attach[T any](b cbus.Bus, exporter cbus.Exporter, opts Options[T]) (*Relay[T], error) {
	if exporter == nil {
		return nil, fmt.Errorf("relay attach: %w", berr.ErrExporterNotConfigured)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	opts.Headers = maps.Clone(opts.Headers)

	r := &Relay[T]{
		exporter: exporter,
		opts:     opts,
		msgType:  reflect.TypeFor[T](),
		life:     component.New(b),
	}
	r.receiver = cbus.NewAsyncReceiver[T](r.forward)

	component.SubscribeTo(r.life, r.receiver)

	return r, nil
}

// Detach stops forwarding. It is safe to call more than once.
func (r *Relay[T]) Detach() { r.life.Dispose() }

func (r *Relay[T]) forward(ctx context.Context, msg T) error {
	opts := cbus.ExportOptions{
		Topic:   r.topic(msg),
		Headers: r.headers(ctx),
	}

	if r.opts.Key != nil {
		opts.Key = r.opts.Key(msg)
	}

	if err := r.exporter.Export(ctx, msg, opts); err != nil {
		r.opts.Logger.DebugContext(ctx, "relay export failed",
			slog.String("topic", opts.Topic),
			slog.String("message_id", opts.Headers[HeaderMessageID]),
			slog.Any("error", err),
		)

		return err
	}

	r.opts.Logger.DebugContext(ctx, "relay exported",
		slog.String("topic", opts.Topic),
		slog.String("message_id", opts.Headers[HeaderMessageID]),
	)

	return nil
}

func (r *Relay[T]) topic(msg T) string {
	if r.opts.Topic != "" {
		return r.opts.Topic
	}

	if tp, ok := any(msg).(cbus.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return topicPrefix + typeName(r.msgType)
}

func (r *Relay[T]) headers(ctx context.Context) map[string]string {
	h := make(map[string]string, len(r.opts.Headers)+4)
	maps.Copy(h, r.opts.Headers)

	h[HeaderMessageID] = uuid.NewString()
	h[HeaderMessageType] = r.msgType.String()

	if r.opts.Propagator != nil {
		r.opts.Propagator.Inject(ctx, h)
	}

	return h
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name := t.Name(); name != "" {
		return name
	}

	return t.String()
}
