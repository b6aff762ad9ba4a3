package callback

import (
	"sync"
)

// DefaultCapacity is the registry capacity used by the New constructors.
const DefaultCapacity = 16

// Func is a plain callback invoked with the trigger value.
type Func func(value int32)

// ContextFunc is a callback invoked with its registered context and the
// trigger value.
type ContextFunc func(ctx any, value int32)

// SimpleRegistry is an append-only bounded list of callbacks.
// Entries are non-owning references; there is no removal, only Clear.
type SimpleRegistry struct {
	funcs    []Func
	capacity int
	mu       sync.Mutex
}

// NewSimpleRegistry creates a registry with DefaultCapacity.
func NewSimpleRegistry() *SimpleRegistry {
	return NewSimpleRegistryWithCapacity(DefaultCapacity)
}

// NewSimpleRegistryWithCapacity creates a registry holding at most
// capacity callbacks.
func NewSimpleRegistryWithCapacity(capacity int) *SimpleRegistry {
	return &SimpleRegistry{
		funcs:    make([]Func, 0, capacity),
		capacity: capacity,
	}
}

// Register appends a callback. A nil callback or a full registry is a
// silent no-op; this asymmetry with ManagedRegistry is contractual.
func (r *SimpleRegistry) Register(fn Func) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.funcs) >= r.capacity {
		return
	}
	r.funcs = append(r.funcs, fn)
}

// Trigger invokes every registered callback with value, in registration
// order.
func (r *SimpleRegistry) Trigger(value int32) {
	r.mu.Lock()
	snapshot := make([]Func, len(r.funcs))
	copy(snapshot, r.funcs)
	r.mu.Unlock()

	for _, fn := range snapshot {
		fn(value)
	}
}

// Clear drops all registrations.
func (r *SimpleRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs = r.funcs[:0]
}

// Len returns the number of registered callbacks.
func (r *SimpleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.funcs)
}

type contextEntry struct {
	fn  ContextFunc
	ctx any
}

// ContextRegistry is an append-only bounded list of callbacks, each
// paired with an opaque context value handed back on trigger.
type ContextRegistry struct {
	entries  []contextEntry
	capacity int
	mu       sync.Mutex
}

// NewContextRegistry creates a registry with DefaultCapacity.
func NewContextRegistry() *ContextRegistry {
	return NewContextRegistryWithCapacity(DefaultCapacity)
}

// NewContextRegistryWithCapacity creates a registry holding at most
// capacity entries.
func NewContextRegistryWithCapacity(capacity int) *ContextRegistry {
	return &ContextRegistry{
		entries:  make([]contextEntry, 0, capacity),
		capacity: capacity,
	}
}

// Register appends a callback with its context. A nil callback or a
// full registry is a silent no-op.
func (r *ContextRegistry) Register(fn ContextFunc, ctx any) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.capacity {
		return
	}
	r.entries = append(r.entries, contextEntry{fn: fn, ctx: ctx})
}

// Trigger invokes every registered callback with its context and value,
// in registration order.
func (r *ContextRegistry) Trigger(value int32) {
	r.mu.Lock()
	snapshot := make([]contextEntry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		e.fn(e.ctx, value)
	}
}

// Clear drops all registrations and their context references.
func (r *ContextRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		r.entries[i] = contextEntry{}
	}
	r.entries = r.entries[:0]
}

// Len returns the number of registered entries.
func (r *ContextRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
