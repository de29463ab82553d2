package bus

import (
	"fmt"

	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

// Envelope wraps a published message for envelope-shaped callbacks.
// One envelope is built per publish call and shared by all subscribers of that call.
type Envelope struct {
	message any
}

// NewEnvelope wraps message.
func NewEnvelope(message any) Envelope { return Envelope{message: message} }

// Message returns the original value.
func (e Envelope) Message() any { return e.message }

// MessageAs returns the wrapped message as T.
func MessageAs[T any](e Envelope) (T, error) {
	if m, ok := e.message.(T); ok {
		return m, nil
	}

	var zero T
	if e.message == nil {
		return zero, nil
	}

	return zero, fmt.Errorf("envelope %T as %T: %w", e.message, zero, berr.ErrHandlerTypeMismatch)
}
