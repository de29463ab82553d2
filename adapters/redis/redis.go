// Package redis exports relayed bus messages over Redis pub/sub.
//
// Each message is published as a JSON frame carrying the headers next to
// the body, since Redis pub/sub has no native header support.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "bus."

// Frame is the payload published on a channel.
type Frame struct {
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body"`
}

// Adapter implements cbus.Exporter on top of redis.Cmdable.
type Adapter struct {
	Client redis.Cmdable
}

var _ cbus.Exporter = (*Adapter)(nil)

func New(c redis.Cmdable) *Adapter { return &Adapter{Client: c} }

func (a *Adapter) Export(ctx context.Context, message any, opts cbus.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("redis export: %w", berr.ErrExporterNotConfigured)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("redis export serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	h := make(map[string]string, len(opts.Headers)+1)
	for k, v := range opts.Headers {
		h[k] = v
	}

	if opts.Key != "" {
		h["key"] = opts.Key
	}

	data, err := json.Marshal(Frame{Headers: h, Body: body})
	if err != nil {
		return fmt.Errorf("redis export serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	channel := channelFor(message, opts)
	if err := a.Client.Publish(ctx, channel, data).Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("redis export publish %s: %w", channel, errors.Join(berr.ErrExportFailed, err))
	}

	return nil
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

func channelFor(message any, o cbus.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := message.(cbus.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return channelPrefix + typeName(message)
}
