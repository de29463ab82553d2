package bus

import "context"

// Exporter mirrors bus messages onto an external broker.
// Implementations live in the adapters packages; the bus itself never calls one.
type Exporter interface {
	Export(ctx context.Context, message any, opts ExportOptions) error
}

// ExportOptions controls where and how a message is exported.
type ExportOptions struct {
	Topic   string
	Key     string
	Headers map[string]string
}

// Topical lets a message name its own export topic.
type Topical interface{ Topic() string }

// HeaderPropagator writes the trace carried by ctx into outgoing export headers.
// It must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}
