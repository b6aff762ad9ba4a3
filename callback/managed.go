package callback

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/hostlib/status"
)

// ErrCapacityExceeded is returned by Register when the slot table has
// no free slot.
var ErrCapacityExceeded = errors.New("callback: registry capacity exceeded")

// Handle identifies a managed registration. Handles start at 1,
// increase monotonically on every successful registration, and are
// never reused within a process even though slots are. Handle 0 is
// never issued.
type Handle int32

type slot struct {
	fn     ContextFunc
	ctx    any
	handle Handle
	active bool
}

// ManagedRegistry is a fixed-capacity slot table of revocable callback
// registrations.
type ManagedRegistry struct {
	slots []slot
	next  Handle
	mu    sync.Mutex
}

// NewManagedRegistry creates a registry with DefaultCapacity slots.
func NewManagedRegistry() *ManagedRegistry {
	return NewManagedRegistryWithCapacity(DefaultCapacity)
}

// NewManagedRegistryWithCapacity creates a registry with capacity slots.
func NewManagedRegistryWithCapacity(capacity int) *ManagedRegistry {
	return &ManagedRegistry{
		slots: make([]slot, capacity),
		next:  1,
	}
}

// Register stores the callback and context in the first inactive slot
// and returns a fresh handle. A full table returns ErrCapacityExceeded
// with no partial mutation. A nil callback fails before touching the
// table; the original interface left this undefined.
func (r *ManagedRegistry) Register(fn ContextFunc, ctx any) (Handle, error) {
	if fn == nil {
		return 0, status.NullArg("callback.Register", "callback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].active {
			continue
		}
		h := r.next
		r.next++
		r.slots[i] = slot{
			fn:     fn,
			ctx:    ctx,
			handle: h,
			active: true,
		}
		Logger().Debug("callback registered",
			zap.Int32("handle", int32(h)),
			zap.Int("slot", i))
		return h, nil
	}
	return 0, ErrCapacityExceeded
}

// Unregister revokes the registration with the given handle, releasing
// the stored callback and context references. Unknown or already
// revoked handles are a silent no-op; Unregister is idempotent.
func (r *ManagedRegistry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].active && r.slots[i].handle == h {
			r.slots[i] = slot{}
			Logger().Debug("callback unregistered", zap.Int32("handle", int32(h)))
			return
		}
	}
}

// Trigger invokes every active registration with its context and value.
// Invocation is in slot-index order, not registration order: after slot
// reuse a newer registration may fire before an older one.
func (r *ManagedRegistry) Trigger(value int32) {
	r.mu.Lock()
	snapshot := make([]contextEntry, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].active {
			snapshot = append(snapshot, contextEntry{fn: r.slots[i].fn, ctx: r.slots[i].ctx})
		}
	}
	r.mu.Unlock()

	for _, e := range snapshot {
		e.fn(e.ctx, value)
	}
}

// Len returns the number of active registrations.
func (r *ManagedRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range r.slots {
		if r.slots[i].active {
			n++
		}
	}
	return n
}

// Capacity returns the slot table size.
func (r *ManagedRegistry) Capacity() int {
	return len(r.slots)
}
