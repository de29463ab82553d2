package componentbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

// Bus is an in-process message bus keyed by exact message type.
//
// Bus is concurrency-safe and contains no global state. It starts no goroutines:
// handlers run on the goroutine that calls Publish.
type Bus struct {
	mu  sync.RWMutex
	reg map[reflect.Type][]registration
	seq uint64

	// dispatch is the middleware chain around the handler call, built once in New.
	dispatch  DispatchFunc
	mw        []DispatchMiddleware
	isolation bool
	logger    *slog.Logger
}

type registration struct {
	h   *cbus.Handler
	seq uint64
}

var _ cbus.Bus = (*Bus)(nil)

// New constructs an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		reg:    make(map[reflect.Type][]registration),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, o := range opts {
		o(b)
	}

	b.dispatch = invoke
	for i := len(b.mw) - 1; i >= 0; i-- {
		b.dispatch = b.mw[i](b.dispatch)
	}

	return b
}

// SubscribeOf registers h for messageType. An existing registration of the same handler for
// the same type is removed first, so repeated subscriptions never duplicate deliveries.
func (b *Bus) SubscribeOf(messageType reflect.Type, h *cbus.Handler) {
	if messageType == nil || h == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(messageType, h)

	b.seq++
	b.reg[messageType] = append(b.reg[messageType], registration{h: h, seq: b.seq})

	b.logger.Debug("componentbus: subscribed",
		"type", messageType.String(), "shape", h.Shape().String(), "seq", b.seq)
}

// UnsubscribeOf removes the (messageType, h) registration if present.
func (b *Bus) UnsubscribeOf(messageType reflect.Type, h *cbus.Handler) {
	if messageType == nil || h == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.removeLocked(messageType, h) {
		b.logger.Debug("componentbus: unsubscribed", "type", messageType.String(), "shape", h.Shape().String())
	}
}

func (b *Bus) removeLocked(messageType reflect.Type, h *cbus.Handler) bool {
	regs := b.reg[messageType]

	i := slices.IndexFunc(regs, func(r registration) bool { return r.h == h })
	if i < 0 {
		return false
	}

	regs = slices.Delete(regs, i, i+1)
	if len(regs) == 0 {
		delete(b.reg, messageType)
	} else {
		b.reg[messageType] = regs
	}

	return true
}

// Publish delivers message to the handlers registered for its dynamic type.
func (b *Bus) Publish(ctx context.Context, message any) error {
	return b.PublishOf(ctx, reflect.TypeOf(message), message)
}

// PublishOf delivers message to every handler registered for messageType, in subscription
// order, waiting for each to return before calling the next.
//
// The context is checked before every handler and passed to async shapes; once it is done,
// its error is returned and no further handler runs. A handler error stops delivery and is
// returned wrapped in ErrHandlerFault unless the bus was built WithFaultIsolation.
func (b *Bus) PublishOf(ctx context.Context, messageType reflect.Type, message any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b.mu.RLock()
	regs := slices.Clone(b.reg[messageType])
	b.mu.RUnlock()

	if len(regs) == 0 {
		return nil
	}

	env := cbus.NewEnvelope(message)

	var errs []error

	for _, r := range regs {
		if err := ctx.Err(); err != nil {
			return joinWith(errs, err)
		}

		d := Dispatch{
			MessageType: messageType,
			Shape:       r.h.Shape(),
			Seq:         r.seq,
			Envelope:    env,
			handler:     r.h,
		}

		err := b.dispatch(ctx, d)
		if err == nil {
			continue
		}

		if isContextErr(err) && ctx.Err() != nil {
			return joinWith(errs, err)
		}

		err = fmt.Errorf("publish %s: %w", messageType.String(), errors.Join(berr.ErrHandlerFault, err))

		if !b.isolation {
			b.logger.DebugContext(ctx, "componentbus: dispatch aborted",
				"type", messageType.String(), "seq", r.seq, "err", err)

			return err
		}

		b.logger.WarnContext(ctx, "componentbus: handler fault isolated",
			"type", messageType.String(), "seq", r.seq, "err", err)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Close discards every registration. The bus remains usable afterwards.
func (b *Bus) Close() error {
	b.mu.Lock()
	n := len(b.reg)
	clear(b.reg)
	b.mu.Unlock()

	b.logger.Debug("componentbus: closed", "types", n)

	return nil
}

// Len returns the number of registrations across all message types.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, regs := range b.reg {
		n += len(regs)
	}

	return n
}

func joinWith(errs []error, err error) error {
	if len(errs) == 0 {
		return err
	}

	return errors.Join(append(errs, err)...)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
