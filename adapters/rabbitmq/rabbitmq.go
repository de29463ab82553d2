package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const routingPrefix = "bus."

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

type Adapter struct {
	Publisher  Publisher
	Exchange   string                // empty publishes to the default exchange
	Propagator cbus.HeaderPropagator // optional, for context propagation into headers
}

var _ cbus.Exporter = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp cbus.HeaderPropagator) *Adapter {
	return &Adapter{Publisher: p, Propagator: hp}
}

// Export publishes message as JSON with the routing key taken from opts.Topic.
func (a *Adapter) Export(ctx context.Context, message any, opts cbus.ExportOptions) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("rabbitmq export serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: routingFor(message, opts),
		Body:       body,
		Headers:    a.headers(ctx, opts),
	}

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq export publish %s: %w", msg.RoutingKey, errors.Join(berr.ErrExportFailed, err))
	}

	return nil
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq export: %w", berr.ErrExporterNotConfigured)
	}

	return nil
}

// headers copies opts.Headers so the caller's map is never mutated.
func (a *Adapter) headers(ctx context.Context, o cbus.ExportOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+4)
	for k, v := range o.Headers {
		h[k] = v
	}

	if o.Key != "" {
		h["key"] = o.Key
	}

	if a.Propagator != nil {
		a.Propagator.Inject(ctx, h)
	}

	return h
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	return name
}

func routingFor(message any, o cbus.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := message.(cbus.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return routingPrefix + typeName(message)
}

func toTable(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}

	h := amqp.Table{}
	for k, v := range headers {
		h[k] = v
	}

	return h
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			Headers:     toTable(m.Headers),
			Body:        m.Body,
			ContentType: "application/json",
		},
	)
}

// NewWithAMQPChannel wraps an already-open channel. The caller owns the channel.
func NewWithAMQPChannel(ch *amqp.Channel, exchange string) *Adapter {
	return &Adapter{Publisher: amqpChannelPublisher{ch: ch}, Exchange: exchange}
}
