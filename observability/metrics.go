package observability

import (
	"context"
	"errors"
	"time"

	"github.com/next-trace/scg-component-bus/componentbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeCanceled = "canceled"
)

// Metrics records dispatch counts and latencies.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the dispatch collectors on registry.
// If registry is nil, uses the default Prometheus registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "componentbus_dispatches_total",
				Help: "Total handler dispatches",
			},
			[]string{"type", "shape", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "componentbus_dispatch_duration_seconds",
				Help: "Handler dispatch duration in seconds",
				Buckets: []float64{
					0.0001, // 100µs
					0.001,  // 1ms
					0.01,   // 10ms
					0.1,    // 100ms
					1.0,    // 1s
					10.0,   // 10s
				},
			},
			[]string{"type"},
		),
	}
}

// Middleware returns the dispatch middleware feeding these collectors.
func (m *Metrics) Middleware() componentbus.DispatchMiddleware {
	return func(next componentbus.DispatchFunc) componentbus.DispatchFunc {
		return func(ctx context.Context, d componentbus.Dispatch) error {
			start := time.Now()
			err := next(ctx, d)

			typ := d.MessageType.String()
			m.duration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
			m.dispatches.WithLabelValues(typ, d.Shape.String(), outcome(err)).Inc()

			return err
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}
