package resource

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed table.
var ErrClosed = errors.New("resource: table closed")

type tableEntry[T any] struct {
	value T
	valid bool
}

// Table maps opaque handles to host-owned values of type T. Freed
// slots are reused through a free list, so a handle value may be
// issued again after its previous owner was removed; callers must not
// retain handles past Remove.
type Table[T any] struct {
	entries   []tableEntry[T]
	freeList  []Handle
	observers []Observer
	closed    bool
	mu        sync.RWMutex
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]tableEntry[T], 0, 16),
		freeList: make([]Handle, 0, 8),
	}
}

// Insert stores a value and returns its handle, or 0 if the table is
// closed.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = tableEntry[T]{value: value, valid: true}
	} else {
		t.entries = append(t.entries, tableEntry[T]{value: value, valid: true})
		h = Handle(len(t.entries))
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, Value: value})
	return h
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return zero, false
	}
	return t.entries[idx].value, true
}

// Remove drops a value from the table and returns it. Values
// implementing Dropper are dropped. Unknown handles return (zero,
// false).
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}

	t.mu.Lock()
	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		t.mu.Unlock()
		return zero, false
	}

	value := t.entries[idx].value
	t.entries[idx] = tableEntry[T]{}
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: h, Value: value})
	return value, true
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].valid {
			n++
		}
	}
	return n
}

// Each calls fn for every live value until fn returns false.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.entries {
		if t.entries[i].valid {
			if !fn(Handle(i+1), t.entries[i].value) {
				return
			}
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close drops every live value and stops accepting inserts. Closing
// twice returns ErrClosed.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.closed = true

	var dropped []T
	for i := range t.entries {
		if t.entries[i].valid {
			dropped = append(dropped, t.entries[i].value)
			t.entries[i] = tableEntry[T]{}
		}
	}
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, v := range dropped {
		if d, ok := any(v).(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

func (t *Table[T]) notify(e Event) {
	t.mu.RLock()
	obs := make([]Observer, len(t.observers))
	copy(obs, t.observers)
	t.mu.RUnlock()

	for _, o := range obs {
		o.OnResourceEvent(e)
	}
}
