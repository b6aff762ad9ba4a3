// Package callback provides bounded callback registries.
//
// Three registries with deliberately different contracts:
//
//   - SimpleRegistry: append-only list of plain functions, triggered in
//     registration order. Register silently ignores nil functions and
//     registrations past capacity.
//   - ContextRegistry: append-only like SimpleRegistry, but each entry
//     pairs the function with an opaque context value passed back on
//     trigger.
//   - ManagedRegistry: a fixed slot table that issues unique,
//     monotonically increasing handles. Registrations can be revoked by
//     handle, slots are reused, and a full table is an explicit
//     recoverable error.
//
// The silent-failure contract of the append-only registries versus the
// explicit error of the managed registry is intentional and preserved
// from the binary interface these registries back.
//
// # Trigger Order
//
// SimpleRegistry and ContextRegistry trigger in strict registration
// order. ManagedRegistry triggers in slot-index order, which after slot
// reuse is NOT registration order: a newly registered entry can land in
// an earlier slot than an older still-active one and fire first. This
// is part of the contract, not a defect.
//
// # Re-entrancy
//
// Trigger snapshots the active entries under the registry lock and
// invokes callbacks unlocked. A callback may register, unregister or
// trigger on its own registry; entries registered during a trigger fire
// on the next trigger.
package callback
