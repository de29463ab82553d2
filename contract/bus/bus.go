package bus

import (
	"context"
	"reflect"
)

// Bus is the non-generic capability interface of the component bus.
//
// Go methods cannot carry type parameters, so typed subscription and publication go through
// the generic helpers in the componentbus package, which accept any Bus. Components that
// only need to talk to the bus should depend on this interface.
type Bus interface {
	// SubscribeOf registers h for messages whose routing type is exactly messageType.
	// Subscribing the same handler again for the same type replaces its entry.
	SubscribeOf(messageType reflect.Type, h *Handler)
	// UnsubscribeOf removes the (messageType, h) registration. Missing entries are ignored.
	UnsubscribeOf(messageType reflect.Type, h *Handler)

	// Publish routes message by its dynamic type.
	Publish(ctx context.Context, message any) error
	// PublishOf routes message by messageType, which must match the registration key exactly.
	PublishOf(ctx context.Context, messageType reflect.Type, message any) error

	// Close discards every registration.
	Close() error
}
