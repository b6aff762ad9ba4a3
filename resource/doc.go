// Package resource provides a generic handle table for host-owned
// values.
//
// Callers across a binary boundary never see the values themselves;
// they hold opaque uint32 handles issued by a Table and reach the value
// only through its lifecycle operations.
//
// # Handle Table
//
//	table := resource.NewTable[*conn.Conn]()
//
//	// Insert a value, get a handle
//	handle := table.Insert(c)
//
//	// Retrieve value by handle
//	c, ok := table.Get(handle)
//
//	// Remove and get value (for ownership transfer)
//	c, ok := table.Remove(handle)
//
// Handle 0 is reserved invalid; freed slots are reused via a free list.
//
// # Cleanup
//
// Values implementing Dropper are dropped when removed or when the
// table is closed. Close drains the table and rejects further inserts;
// a second Close is a recoverable ErrClosed, never a double drop.
//
// # Observers
//
// Subscribe observers to follow resource lifecycle events:
//
//	table.Subscribe(obs) // obs.OnResourceEvent(Event) on create/drop
package resource
