package componentbus

import (
	"context"
	"reflect"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
)

// Subscribe registers an envelope handler for messages of exact type T.
func Subscribe[T any](b cbus.Bus, h *cbus.Handler) {
	b.SubscribeOf(reflect.TypeFor[T](), h)
}

// SubscribeTo registers a raw-typed receiver for messages of exact type T.
func SubscribeTo[T any](b cbus.Bus, r *cbus.Receiver[T]) {
	b.SubscribeOf(reflect.TypeFor[T](), r.Handler())
}

// Unsubscribe removes the (T, h) registration if present.
func Unsubscribe[T any](b cbus.Bus, h *cbus.Handler) {
	b.UnsubscribeOf(reflect.TypeFor[T](), h)
}

// UnsubscribeFrom removes the (T, r) registration if present.
func UnsubscribeFrom[T any](b cbus.Bus, r *cbus.Receiver[T]) {
	b.UnsubscribeOf(reflect.TypeFor[T](), r.Handler())
}

// Publish delivers message to the subscribers of its static type T.
// For an interface T this differs from b.Publish, which routes by the dynamic type.
func Publish[T any](ctx context.Context, b cbus.Bus, message T) error {
	return b.PublishOf(ctx, reflect.TypeFor[T](), message)
}
