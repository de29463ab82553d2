package observability

import (
	"context"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Propagator bridges an OpenTelemetry TextMapPropagator to cbus.HeaderPropagator.
type Propagator struct {
	tm propagation.TextMapPropagator
}

var _ cbus.HeaderPropagator = Propagator{}

// NewPropagator wraps tm. If tm is nil, uses the global text map propagator.
func NewPropagator(tm propagation.TextMapPropagator) Propagator {
	if tm == nil {
		tm = otel.GetTextMapPropagator()
	}

	return Propagator{tm: tm}
}

func (p Propagator) Inject(ctx context.Context, headers map[string]string) {
	if headers == nil {
		return
	}

	p.tm.Inject(ctx, propagation.MapCarrier(headers))
}
