// Package scope hands out exactly one bus per logical scope, such as a user session,
// exposed both as *componentbus.Bus and as the cbus.Bus capability interface.
package scope

import (
	"fmt"
	"sync"

	"github.com/next-trace/scg-component-bus/componentbus"
	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

// New constructs a standalone bus and returns it as a cbus.Bus along with a cleanup
// function that closes it.
func New(opts ...componentbus.Option) (cbus.Bus, func()) { //nolint:ireturn
	b := componentbus.New(opts...)
	cleanup := func() { _ = b.Close() }

	return b, cleanup
}

// Scope owns one bus.
type Scope struct {
	id  string
	bus *componentbus.Bus
}

// ID returns the scope key.
func (s *Scope) ID() string { return s.id }

// Bus returns the scope's bus as its concrete type.
func (s *Scope) Bus() *componentbus.Bus { return s.bus }

// ComponentBus returns the same bus as the capability interface.
func (s *Scope) ComponentBus() cbus.Bus { return s.bus } //nolint:ireturn

// Close discards the bus registrations.
func (s *Scope) Close() error { return s.bus.Close() }

// Provider creates scopes lazily and keeps one per id until released.
type Provider struct {
	mu     sync.Mutex
	opts   []componentbus.Option
	scopes map[string]*Scope
	closed bool
}

// NewProvider returns a Provider whose buses are built with opts.
func NewProvider(opts ...componentbus.Option) *Provider {
	return &Provider{opts: opts, scopes: make(map[string]*Scope)}
}

// Get returns the scope for id, creating it on first use.
func (p *Provider) Get(id string) (*Scope, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("scope %q: %w", id, berr.ErrScopeClosed)
	}

	if s, ok := p.scopes[id]; ok {
		return s, nil
	}

	s := &Scope{id: id, bus: componentbus.New(p.opts...)}
	p.scopes[id] = s

	return s, nil
}

// Release closes and forgets the scope for id. Unknown ids are ignored.
func (p *Provider) Release(id string) error {
	p.mu.Lock()
	s, ok := p.scopes[id]
	delete(p.scopes, id)
	p.mu.Unlock()

	if !ok {
		return nil
	}

	return s.Close()
}

// Len returns the number of live scopes.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.scopes)
}

// Close releases every scope; later Get calls fail with ErrScopeClosed.
func (p *Provider) Close() error {
	p.mu.Lock()
	scopes := p.scopes
	p.scopes = make(map[string]*Scope)
	p.closed = true
	p.mu.Unlock()

	for _, s := range scopes {
		_ = s.Close()
	}

	return nil
}
