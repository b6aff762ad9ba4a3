// Package host assembles the interop surface: a Library facade over
// the callback registry, the connection handle table and the glue
// operations, plus the wazero binding that exposes the same surface to
// WebAssembly guests.
//
// # Embedder Use
//
//	lib := host.New()
//	defer lib.Close()
//
//	h, _ := lib.RegisterCallback(func(ctx any, v int32) { ... }, tag)
//	lib.TriggerCallbacks(42)
//	lib.UnregisterCallback(h)
//
// # Guest Use
//
// BindModule instantiates the "hostlib:api" host module. Guests import
// flat C-style functions: strings travel as (ptr, len) pairs, results
// needing allocation go through the guest's exported "alloc"/"free",
// failures come back as ABI codes and handles as plain integers.
//
// Callbacks are registered by the embedder in Go; guests only fire
// them through trigger-callbacks. There is no way to register a guest
// function as a callback, by design.
package host
