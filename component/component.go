// Package component ties bus subscriptions to the lifetime of a component: subscribe while
// mounting, then Dispose once to drop every subscription the component made.
package component

import (
	"reflect"
	"slices"
	"sync"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
)

// Lifecycle tracks the subscriptions one component made on a bus.
type Lifecycle struct {
	mu       sync.Mutex
	bus      cbus.Bus
	subs     []tracked
	disposed bool
}

type tracked struct {
	t reflect.Type
	h *cbus.Handler
}

// New returns a Lifecycle bound to b.
func New(b cbus.Bus) *Lifecycle { return &Lifecycle{bus: b} }

// Bus returns the bus the component is mounted on.
func (l *Lifecycle) Bus() cbus.Bus { return l.bus }

// Subscribe registers h for T and remembers it for Dispose.
func Subscribe[T any](l *Lifecycle, h *cbus.Handler) { l.subscribe(reflect.TypeFor[T](), h) }

// SubscribeTo registers r for T and remembers it for Dispose.
func SubscribeTo[T any](l *Lifecycle, r *cbus.Receiver[T]) {
	l.subscribe(reflect.TypeFor[T](), r.Handler())
}

// Unsubscribe removes h for T before the component is disposed.
func Unsubscribe[T any](l *Lifecycle, h *cbus.Handler) { l.unsubscribe(reflect.TypeFor[T](), h) }

// UnsubscribeFrom removes r for T before the component is disposed.
func UnsubscribeFrom[T any](l *Lifecycle, r *cbus.Receiver[T]) {
	l.unsubscribe(reflect.TypeFor[T](), r.Handler())
}

func (l *Lifecycle) subscribe(t reflect.Type, h *cbus.Handler) {
	if h == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// a disposed component stays silent
	if l.disposed {
		return
	}

	l.bus.SubscribeOf(t, h)

	s := tracked{t: t, h: h}
	if !slices.Contains(l.subs, s) {
		l.subs = append(l.subs, s)
	}
}

func (l *Lifecycle) unsubscribe(t reflect.Type, h *cbus.Handler) {
	if h == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.bus.UnsubscribeOf(t, h)

	s := tracked{t: t, h: h}
	l.subs = slices.DeleteFunc(l.subs, func(x tracked) bool { return x == s })
}

// Len returns the number of live subscriptions.
func (l *Lifecycle) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.subs)
}

// Dispose unsubscribes everything in reverse subscription order. It is safe to call twice.
func (l *Lifecycle) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		return
	}

	l.disposed = true

	for i := len(l.subs) - 1; i >= 0; i-- {
		l.bus.UnsubscribeOf(l.subs[i].t, l.subs[i].h)
	}

	l.subs = nil
}
