package bus

import "context"

// Callback is a synchronous callback. It runs to completion on the publishing goroutine.
type Callback[M any] func(message M) error

// AsyncCallback is a cancellation-aware callback. It receives the publish context and the bus
// waits for it to return before moving to the next subscriber.
type AsyncCallback[M any] func(ctx context.Context, message M) error

// Shape tags the callback variant stored in a Handler.
type Shape uint8

const (
	ShapeEnvelope Shape = iota + 1
	ShapeEnvelopeAsync
	ShapeMessage
	ShapeMessageAsync
)

func (s Shape) String() string {
	switch s {
	case ShapeEnvelope:
		return "envelope"
	case ShapeEnvelopeAsync:
		return "envelope_async"
	case ShapeMessage:
		return "message"
	case ShapeMessageAsync:
		return "message_async"
	default:
		return "unknown"
	}
}

// Async reports whether the shape receives the publish context.
func (s Shape) Async() bool { return s == ShapeEnvelopeAsync || s == ShapeMessageAsync }

// Handler is a subscribable callback with a stable identity.
//
// The pointer is the identity: create a handler once and reuse it to subscribe and
// unsubscribe. Two handlers wrapping the same function are two different subscribers.
type Handler struct {
	shape Shape
	call  Callback[Envelope]
	async AsyncCallback[Envelope]
}

// NewHandler wraps an envelope callback. A nil fn yields a nil handler.
func NewHandler(fn Callback[Envelope]) *Handler {
	if fn == nil {
		return nil
	}

	return &Handler{shape: ShapeEnvelope, call: fn}
}

// NewAsyncHandler wraps a cancellation-aware envelope callback. A nil fn yields a nil handler.
func NewAsyncHandler(fn AsyncCallback[Envelope]) *Handler {
	if fn == nil {
		return nil
	}

	return &Handler{shape: ShapeEnvelopeAsync, async: fn}
}

// Shape returns the callback variant.
func (h *Handler) Shape() Shape { return h.shape }

// Invoke calls the wrapped callback. Synchronous shapes never see ctx.
func (h *Handler) Invoke(ctx context.Context, env Envelope) error {
	switch h.shape {
	case ShapeEnvelope, ShapeMessage:
		return h.call(env)
	case ShapeEnvelopeAsync, ShapeMessageAsync:
		return h.async(ctx, env)
	default:
		return nil
	}
}

// Receiver is a subscribable raw-typed callback. Like Handler, its pointer is its identity.
type Receiver[T any] struct {
	h *Handler
}

// NewReceiver wraps a callback that takes the message itself. A nil fn yields a nil receiver.
func NewReceiver[T any](fn Callback[T]) *Receiver[T] {
	if fn == nil {
		return nil
	}

	return &Receiver[T]{h: &Handler{
		shape: ShapeMessage,
		call: func(env Envelope) error {
			m, err := MessageAs[T](env)
			if err != nil {
				return err
			}

			return fn(m)
		},
	}}
}

// NewAsyncReceiver wraps a cancellation-aware callback that takes the message itself.
func NewAsyncReceiver[T any](fn AsyncCallback[T]) *Receiver[T] {
	if fn == nil {
		return nil
	}

	return &Receiver[T]{h: &Handler{
		shape: ShapeMessageAsync,
		async: func(ctx context.Context, env Envelope) error {
			m, err := MessageAs[T](env)
			if err != nil {
				return err
			}

			return fn(ctx, m)
		},
	}}
}

// Handler returns the envelope-level handler backing r; it is stable for the receiver's lifetime.
func (r *Receiver[T]) Handler() *Handler {
	if r == nil {
		return nil
	}

	return r.h
}
