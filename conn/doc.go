// Package conn implements an opaque simulated connection resource.
//
// A Conn moves through a strict lifecycle:
//
//	Closed -> Open -> Execute* -> Open -> Close -> Closed (terminal)
//
// All fields are private; callers interact only through the lifecycle
// methods, and the value handed across a binary boundary is an opaque
// handle issued by the resource table, never the struct itself.
//
// Closing twice is a recoverable failure (ErrClosed), not undefined
// behavior, and executing on a closed connection records
// "Not connected" and fails with an InvalidInput status.
//
// The execution engine behind Execute is a seam: SimulatedExecutor
// fails on commands containing FailureMarker and is meant to be
// replaced by a real Executor.
package conn
