package componentbus

import "log/slog"

// Option configures a Bus instance.
type Option func(*Bus)

// WithLogger sets the logger used for debug tracing and isolated faults. Nil keeps the discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithFaultIsolation keeps dispatching after a handler fails and returns all failures joined.
func WithFaultIsolation() Option {
	return func(b *Bus) { b.isolation = true }
}

// WithDispatchMiddleware registers middleware around every handler call.
// Middlewares are executed in registration order.
func WithDispatchMiddleware(mw ...DispatchMiddleware) Option {
	return func(b *Bus) { b.mw = append(b.mw, mw...) }
}
