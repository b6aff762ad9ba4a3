package host

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/hostlib"
	"github.com/wippyai/hostlib/abi"
	"github.com/wippyai/hostlib/resource"
	"github.com/wippyai/hostlib/status"
)

// ModuleName is the import namespace guests use to reach the library.
const ModuleName = "hostlib:api"

// Exported allocator entry points looked up in the calling module for
// operations that return ownership of guest memory.
const (
	guestAllocExport = "alloc"
	guestFreeExport  = "free"
)

// BindModule exposes lib as a wazero host module. Guests import
// functions from ModuleName with flat C-style signatures: strings are
// (ptr, len) pairs in the caller's linear memory, out-parameters are
// pointers, failures are ABI codes. Calls made without linear memory
// fail with NullPointer codes instead of trapping.
func BindModule(ctx context.Context, rt wazero.Runtime, lib *Library) (api.Module, error) {
	i32 := api.ValueTypeI32
	f64 := api.ValueTypeF64

	type hostFunc struct {
		name    string
		fn      api.GoModuleFunc
		params  []api.ValueType
		results []api.ValueType
	}

	funcs := []hostFunc{
		{"add", lib.wasmAdd, []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"abs", lib.wasmAbs, []api.ValueType{i32}, []api.ValueType{i32}},
		{"sqrt", lib.wasmSqrt, []api.ValueType{f64}, []api.ValueType{f64}},
		{"divide", lib.wasmDivide, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"process-sample", lib.wasmProcessSample, []api.ValueType{i32}, []api.ValueType{i32}},
		{"string-length", lib.wasmStringLength, []api.ValueType{i32}, []api.ValueType{i32}},
		{"string-concat", lib.wasmStringConcat, []api.ValueType{i32, i32, i32, i32, i32, i32}, []api.ValueType{i32}},
		{"string-free", lib.wasmStringFree, []api.ValueType{i32, i32}, nil},
		{"print-message", lib.wasmPrintMessage, []api.ValueType{i32, i32}, nil},
		{"error-message", lib.wasmErrorMessage, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"trigger-callbacks", lib.wasmTriggerCallbacks, []api.ValueType{i32}, nil},
		{"db-open", lib.wasmDbOpen, []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{"db-execute", lib.wasmDbExecute, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"db-last-error", lib.wasmDbLastError, []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{"db-close", lib.wasmDbClose, []api.ValueType{i32}, []api.ValueType{i32}},
	}

	builder := rt.NewHostModuleBuilder(ModuleName)
	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.params, f.results).
			Export(f.name)
	}
	return builder.Instantiate(ctx)
}

// guestMemory adapts the caller's wazero memory to hostlib.Memory.
// Read copies out of the view so later guest writes cannot alias host
// state.
type guestMemory struct {
	mem api.Memory
}

var (
	_ hostlib.Memory    = guestMemory{}
	_ hostlib.Allocator = guestAllocator{}
)

func (g guestMemory) Read(offset, length uint32) ([]byte, error) {
	if g.mem == nil {
		return nil, errors.New("no linear memory")
	}
	view, ok := g.mem.Read(offset, length)
	if !ok {
		return nil, errors.New("read out of range")
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

func (g guestMemory) Write(offset uint32, data []byte) error {
	if g.mem == nil {
		return errors.New("no linear memory")
	}
	if !g.mem.Write(offset, data) {
		return errors.New("write out of range")
	}
	return nil
}

// guestAllocator adapts the caller's exported allocator to
// hostlib.Allocator.
type guestAllocator struct {
	ctx   context.Context
	alloc api.Function
	free  api.Function
}

func (g guestAllocator) Alloc(size uint32) (uint32, error) {
	results, err := g.alloc.Call(g.ctx, uint64(size))
	if err != nil {
		return 0, err
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 {
		return 0, errors.New("guest allocator returned null")
	}
	return ptr, nil
}

func (g guestAllocator) Free(ptr, size uint32) {
	if g.free == nil {
		return
	}
	_, _ = g.free.Call(g.ctx, uint64(ptr), uint64(size))
}

func callerString(mod api.Module, ptr, length uint32) (string, error) {
	return abi.ReadString(guestMemory{mem: mod.Memory()}, ptr, length)
}

// writeToBuffer copies s into the caller buffer at (ptr, cap) and
// returns the number of bytes written, truncating to fit. Absent
// memory or a zero buffer writes nothing.
func writeToBuffer(mod api.Module, s string, ptr, capacity uint32) int32 {
	mem := mod.Memory()
	if mem == nil || ptr == 0 || capacity == 0 {
		return 0
	}
	data := []byte(s)
	if uint32(len(data)) > capacity {
		data = data[:capacity]
	}
	if !mem.Write(ptr, data) {
		return 0
	}
	return int32(len(data))
}

func (l *Library) wasmAdd(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeI32(l.Add(api.DecodeI32(stack[0]), api.DecodeI32(stack[1])))
}

func (l *Library) wasmAbs(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeI32(l.Abs(api.DecodeI32(stack[0])))
}

func (l *Library) wasmSqrt(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeF64(l.Sqrt(api.DecodeF64(stack[0])))
}

// wasmDivide computes a/b into the caller's out pointer. The out
// parameter stays unwritten on failure.
func (l *Library) wasmDivide(_ context.Context, mod api.Module, stack []uint64) {
	a := api.DecodeI32(stack[0])
	b := api.DecodeI32(stack[1])
	outPtr := api.DecodeU32(stack[2])

	mem := mod.Memory()
	if mem == nil || outPtr == 0 {
		stack[0] = api.EncodeI32(int32(status.NullPointer))
		return
	}

	q, err := l.Divide(a, b)
	if err != nil {
		stack[0] = api.EncodeI32(int32(status.CodeOf(err)))
		return
	}
	if !mem.WriteUint32Le(outPtr, uint32(q)) {
		stack[0] = api.EncodeI32(int32(status.NullPointer))
		return
	}
	stack[0] = api.EncodeI32(int32(status.OK))
}

// wasmProcessSample folds the Sample at ptr. A null pointer or an
// unreadable buffer yields -1, matching the original interface.
func (l *Library) wasmProcessSample(_ context.Context, mod api.Module, stack []uint64) {
	ptr := api.DecodeU32(stack[0])

	mem := mod.Memory()
	if mem == nil || ptr == 0 {
		stack[0] = api.EncodeI32(-1)
		return
	}
	data, ok := mem.Read(ptr, abi.SampleSize)
	if !ok {
		stack[0] = api.EncodeI32(-1)
		return
	}
	s, err := abi.DecodeSample(data)
	if err != nil {
		stack[0] = api.EncodeI32(-1)
		return
	}
	stack[0] = api.EncodeI32(l.ProcessSample(s))
}

// wasmStringLength scans for the NUL terminator, C-style. A null
// pointer or missing terminator yields 0.
func (l *Library) wasmStringLength(_ context.Context, mod api.Module, stack []uint64) {
	ptr := api.DecodeU32(stack[0])

	mem := mod.Memory()
	if mem == nil || ptr == 0 {
		stack[0] = api.EncodeI32(0)
		return
	}
	var n int32
	for {
		b, ok := mem.ReadByte(ptr + uint32(n))
		if !ok {
			stack[0] = api.EncodeI32(0)
			return
		}
		if b == 0 {
			stack[0] = api.EncodeI32(n)
			return
		}
		n++
	}
}

// wasmStringConcat concatenates two caller strings into memory obtained
// from the caller's exported allocator and writes the resulting
// (ptr, len) through the two out pointers. Ownership of the allocation
// transfers to the caller, to be released via string-free exactly once.
func (l *Library) wasmStringConcat(ctx context.Context, mod api.Module, stack []uint64) {
	aPtr, aLen := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	bPtr, bLen := api.DecodeU32(stack[2]), api.DecodeU32(stack[3])
	outPtrPtr, outLenPtr := api.DecodeU32(stack[4]), api.DecodeU32(stack[5])

	mem := mod.Memory()
	allocFn := mod.ExportedFunction(guestAllocExport)
	if mem == nil || allocFn == nil || outPtrPtr == 0 || outLenPtr == 0 {
		stack[0] = api.EncodeI32(int32(status.NullPointer))
		return
	}

	a, err := callerString(mod, aPtr, aLen)
	if err != nil {
		stack[0] = api.EncodeI32(int32(status.CodeOf(err)))
		return
	}
	b, err := callerString(mod, bPtr, bLen)
	if err != nil {
		stack[0] = api.EncodeI32(int32(status.CodeOf(err)))
		return
	}

	alloc := guestAllocator{
		ctx:   ctx,
		alloc: allocFn,
		free:  mod.ExportedFunction(guestFreeExport),
	}
	ptr, length, err := abi.WriteString(guestMemory{mem: mem}, alloc, l.StringConcat(a, b))
	if err != nil {
		stack[0] = api.EncodeI32(int32(status.CodeOf(err)))
		return
	}
	if !mem.WriteUint32Le(outPtrPtr, ptr) || !mem.WriteUint32Le(outLenPtr, length) {
		abi.FreeString(alloc, ptr, length)
		stack[0] = api.EncodeI32(int32(status.NullPointer))
		return
	}
	stack[0] = api.EncodeI32(int32(status.OK))
}

// wasmStringFree releases a region previously returned by
// string-concat through the caller's exported free.
func (l *Library) wasmStringFree(ctx context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	abi.FreeString(guestAllocator{
		ctx:  ctx,
		free: mod.ExportedFunction(guestFreeExport),
	}, ptr, length)
}

func (l *Library) wasmPrintMessage(_ context.Context, mod api.Module, stack []uint64) {
	msg, err := callerString(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if err != nil {
		return
	}
	l.PrintMessage(msg)
}

// wasmErrorMessage writes the message for code into the caller buffer
// and returns the number of bytes written.
func (l *Library) wasmErrorMessage(_ context.Context, mod api.Module, stack []uint64) {
	code := api.DecodeI32(stack[0])
	bufPtr, bufCap := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	stack[0] = api.EncodeI32(writeToBuffer(mod, l.ErrorMessage(code), bufPtr, bufCap))
}

func (l *Library) wasmTriggerCallbacks(_ context.Context, _ api.Module, stack []uint64) {
	l.TriggerCallbacks(api.DecodeI32(stack[0]))
}

// wasmDbOpen opens a connection for the caller path and returns its
// handle, or 0 on failure.
func (l *Library) wasmDbOpen(_ context.Context, mod api.Module, stack []uint64) {
	path, err := callerString(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if err != nil || path == "" {
		stack[0] = api.EncodeU32(0)
		return
	}
	h, err := l.DbOpen(path)
	if err != nil {
		stack[0] = api.EncodeU32(0)
		return
	}
	stack[0] = api.EncodeU32(uint32(h))
}

func (l *Library) wasmDbExecute(_ context.Context, mod api.Module, stack []uint64) {
	h := resource.Handle(api.DecodeU32(stack[0]))
	command, err := callerString(mod, api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
	if err != nil {
		stack[0] = api.EncodeI32(int32(status.CodeOf(err)))
		return
	}
	stack[0] = api.EncodeI32(int32(l.DbExecute(h, command)))
}

// wasmDbLastError writes the connection's last error into the caller
// buffer and returns the number of bytes written.
func (l *Library) wasmDbLastError(_ context.Context, mod api.Module, stack []uint64) {
	h := resource.Handle(api.DecodeU32(stack[0]))
	bufPtr, bufCap := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	stack[0] = api.EncodeI32(writeToBuffer(mod, l.DbLastError(h), bufPtr, bufCap))
}

func (l *Library) wasmDbClose(_ context.Context, _ api.Module, stack []uint64) {
	_ = l.DbClose(resource.Handle(api.DecodeU32(stack[0])))
	stack[0] = api.EncodeI32(int32(status.OK))
}
