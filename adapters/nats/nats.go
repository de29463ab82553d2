package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

const subjectPrefix = "bus."

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements cbus.Exporter using an injected NATS-like Client.
type Adapter struct {
	Client Client
}

// Ensure Adapter implements the contract.
var _ cbus.Exporter = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// Export publishes message as JSON on the subject named by opts.Topic.
func (a *Adapter) Export(ctx context.Context, message any, opts cbus.ExportOptions) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("nats export serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	subj := subjectFor(message, opts)
	if err := a.Client.Publish(subj, body, exportHeaders(opts)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats export publish %s: %w", subj, errors.Join(berr.ErrExportFailed, err))
	}

	return nil
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats export: %w", berr.ErrExporterNotConfigured)
	}

	return nil
}

// helpers

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" { // unnamed (e.g., map/struct literal)
		name = t.String()
	}

	return name
}

func subjectFor(message any, o cbus.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := message.(cbus.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return subjectPrefix + typeName(message)
}

func exportHeaders(o cbus.ExportOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		h[k] = v
	}

	if o.Key != "" {
		h["key"] = o.Key
	}

	return h
}
