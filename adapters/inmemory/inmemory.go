package inmemory

import (
	"context"
	"maps"
	"sync"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
)

// Record is one exported message.
type Record struct {
	Message any
	Options cbus.ExportOptions
}

// Exporter is a thread-safe in-memory implementation of cbus.Exporter.
// It records exported messages for testing and examples.
type Exporter struct {
	mu      sync.Mutex
	records []Record
	// Err, when set, is returned by Export instead of recording.
	Err error
}

// Ensure Exporter implements the contract.
var _ cbus.Exporter = (*Exporter)(nil)

// New creates a new in-memory exporter instance.
func New() *Exporter { return &Exporter{} }

func (e *Exporter) Export(ctx context.Context, message any, opts cbus.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Err != nil {
		return e.Err
	}

	opts.Headers = maps.Clone(opts.Headers)
	e.records = append(e.records, Record{Message: message, Options: opts})

	return nil
}

// Records returns a copy of everything exported so far.
func (e *Exporter) Records() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Record(nil), e.records...)
}

// Len returns the number of exported messages.
func (e *Exporter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.records)
}
