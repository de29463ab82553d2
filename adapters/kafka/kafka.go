package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

const topicPrefix = "bus."

// Writer is a minimal Kafka-like writer interface.
// Users can adapt segmentio/kafka-go or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements cbus.Exporter using an injected Writer.
type Adapter struct {
	Writer Writer
}

var _ cbus.Exporter = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// Export writes message as a JSON record. opts.Key becomes the record key.
func (a *Adapter) Export(ctx context.Context, message any, opts cbus.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka export: %w", berr.ErrExporterNotConfigured)
	}

	val, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("kafka export serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	var key []byte
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	topic := topicFor(message, opts)

	if err = a.Writer.Write(ctx, topic, key, val, copyHeaders(opts.Headers)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		// separate return from preceding multi-line block (wsl)
		return fmt.Errorf("kafka export write %q: %w", topic, errors.Join(berr.ErrExportFailed, err))
	}

	return nil
}

// helpers (duplicated for simplicity and test isolation)

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

func topicFor(message any, o cbus.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := message.(cbus.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return topicPrefix + typeName(message)
}

func copyHeaders(src map[string]string) map[string]string {
	h := make(map[string]string, len(src))
	for k, v := range src {
		h[k] = v
	}

	return h
}
