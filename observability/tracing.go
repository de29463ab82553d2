package observability

import (
	"context"

	"github.com/next-trace/scg-component-bus/componentbus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/next-trace/scg-component-bus"

// Tracing starts one internal span per dispatch. The handler sees the span in its context,
// so exports made from it carry the trace.
// If provider is nil, uses the global tracer provider.
func Tracing(provider trace.TracerProvider) componentbus.DispatchMiddleware {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	tracer := provider.Tracer(instrumentationName)

	return func(next componentbus.DispatchFunc) componentbus.DispatchFunc {
		return func(ctx context.Context, d componentbus.Dispatch) error {
			ctx, span := tracer.Start(ctx, "componentbus.dispatch "+d.MessageType.String(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					attribute.String("componentbus.message_type", d.MessageType.String()),
					attribute.String("componentbus.shape", d.Shape.String()),
					attribute.Int64("componentbus.seq", int64(d.Seq)), //nolint:gosec // sequence numbers stay far below MaxInt64
				),
			)
			defer span.End()

			err := next(ctx, d)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				return err
			}

			span.SetStatus(codes.Ok, "")

			return nil
		}
	}
}
