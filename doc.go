// Package hostlib provides a host-side interop library with a stable
// binary interface for cross-language consumption.
//
// The library's core is a handle-based registry subsystem: bounded slot
// tables that issue opaque, stable identifiers for registered callbacks
// and for host-owned resource objects. Callers across a language
// boundary only ever see flat integers, (pointer, length) pairs and
// opaque handles; internal storage is never exposed.
//
// # Architecture Overview
//
// The library is organized into small packages with distinct
// responsibilities:
//
//	hostlib/             Root package with Memory and Allocator interfaces
//	├── status/          Stable numeric result-code taxonomy and messages
//	├── callback/        Simple, context and managed callback registries
//	├── conn/            Opaque simulated connection with a full lifecycle
//	├── resource/        Generic handle table for host-owned values
//	├── abi/             Fixed struct layout and guest string ownership
//	└── host/            Embedder facade and wazero host module binding
//
// # Quick Start
//
// Create a library, register a callback and open a connection:
//
//	lib := host.New()
//	defer lib.Close()
//
//	handle, err := lib.RegisterCallback(func(ctx any, v int32) {
//	    fmt.Println(ctx, v)
//	}, "tag")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.UnregisterCallback(handle)
//
//	db, err := lib.DbOpen("/tmp/test.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lib.DbExecute(db, "SELECT 1")
//	lib.DbClose(db)
//
// Expose the same surface to WebAssembly guests:
//
//	rt := wazero.NewRuntime(ctx)
//	mod, err := host.BindModule(ctx, rt, lib)
//
// # Thread Safety
//
// Every registry and the connection type guard their state with an
// internal mutex. Trigger operations snapshot active entries before
// invoking callbacks, so a callback may safely re-enter its registry.
//
// # Handles
//
// Callback handles are monotonically increasing int32 values starting
// at 1; they are never reused within a process even though table slots
// are. Resource handles are uint32 values with 0 reserved as invalid.
// Callers must not interpret handle values.
package hostlib
