package componentbus

import (
	"context"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
)

// Dispatch describes one handler call within a publish.
type Dispatch struct {
	MessageType reflect.Type
	Shape       cbus.Shape
	// Seq is the registration sequence number, unique per bus.
	Seq      uint64
	Envelope cbus.Envelope

	handler *cbus.Handler
}

// DispatchFunc performs one handler call.
type DispatchFunc func(ctx context.Context, d Dispatch) error

// DispatchMiddleware wraps handler calls.
type DispatchMiddleware func(next DispatchFunc) DispatchFunc

func invoke(ctx context.Context, d Dispatch) error {
	if d.handler == nil {
		return nil
	}

	return d.handler.Invoke(ctx, d.Envelope)
}
