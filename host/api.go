package host

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/hostlib/abi"
	"github.com/wippyai/hostlib/callback"
	"github.com/wippyai/hostlib/conn"
	"github.com/wippyai/hostlib/resource"
	"github.com/wippyai/hostlib/status"
)

// Library is the embedder-facing facade over the interop surface: the
// managed callback registry, the connection handle table and the glue
// operations. A Library owns everything it hands out handles for;
// Close reclaims all of it.
type Library struct {
	callbacks *callback.ManagedRegistry
	conns     *resource.Table[*conn.Conn]
}

// New creates a Library with default-capacity registries.
func New() *Library {
	lib := &Library{
		callbacks: callback.NewManagedRegistry(),
		conns:     resource.NewTable[*conn.Conn](),
	}
	lib.conns.Subscribe(connObserver{})
	return lib
}

// connObserver mirrors connection handle lifecycle into the package
// log.
type connObserver struct{}

func (connObserver) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated:
		Logger().Debug("connection handle issued", zap.Uint32("handle", uint32(e.Handle)))
	case resource.EventDropped:
		Logger().Debug("connection handle revoked", zap.Uint32("handle", uint32(e.Handle)))
	}
}

// Close drops every live connection and rejects further opens.
func (l *Library) Close() error {
	return l.conns.Close()
}

// Arithmetic and string glue. These carry no invariants; they exist so
// the exported surface is complete.

func (l *Library) Add(a, b int32) int32 {
	return a + b
}

func (l *Library) Abs(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

func (l *Library) Sqrt(x float64) float64 {
	return math.Sqrt(x)
}

// Divide returns a/b. Division by zero fails with InvalidInput and no
// quotient is produced.
func (l *Library) Divide(a, b int32) (int32, error) {
	if b == 0 {
		return 0, status.Invalid("host.Divide", "division by zero")
	}
	return a / b, nil
}

func (l *Library) StringLength(s string) int32 {
	return int32(len(s))
}

func (l *Library) StringConcat(a, b string) string {
	return a + b
}

// PrintMessage emits msg through the package log. Empty messages are
// dropped.
func (l *Library) PrintMessage(msg string) {
	if msg == "" {
		return
	}
	Logger().Info("message", zap.String("text", msg))
}

// ProcessSample folds a Sample, verifying layout agreement with the
// caller.
func (l *Library) ProcessSample(s abi.Sample) int32 {
	return abi.ProcessSample(s)
}

// ErrorMessage translates any code to a human-readable message. The
// mapping is total.
func (l *Library) ErrorMessage(code int32) string {
	return status.Message(status.Code(code))
}

// Callback registry operations.

// RegisterCallback stores a callback with its context and returns its
// handle.
func (l *Library) RegisterCallback(fn callback.ContextFunc, ctx any) (callback.Handle, error) {
	return l.callbacks.Register(fn, ctx)
}

// UnregisterCallback revokes a registration; unknown handles are a
// no-op.
func (l *Library) UnregisterCallback(h callback.Handle) {
	l.callbacks.Unregister(h)
}

// TriggerCallbacks fires every active callback with value, in slot
// order.
func (l *Library) TriggerCallbacks(value int32) {
	l.callbacks.Trigger(value)
}

// CallbackCount returns the number of active registrations.
func (l *Library) CallbackCount() int {
	return l.callbacks.Len()
}

// Connection operations. Connections live in the handle table and are
// only ever exposed as opaque handles.

// DbOpen opens a connection and returns its handle.
func (l *Library) DbOpen(path string) (resource.Handle, error) {
	c, err := conn.Open(path)
	if err != nil {
		return 0, err
	}

	h := l.conns.Insert(c)
	if h == 0 {
		c.Drop()
		return 0, status.Failed("host.DbOpen", "library closed", resource.ErrClosed)
	}
	return h, nil
}

// DbExecute runs a command on the connection behind h and returns the
// resulting ABI code. Unknown handles map to NullPointer.
func (l *Library) DbExecute(h resource.Handle, command string) status.Code {
	c, ok := l.conns.Get(h)
	if !ok {
		return status.NullPointer
	}
	return status.CodeOf(c.Execute(command))
}

// DbLastError returns the last error recorded on the connection behind
// h, or the "Null connection" sentinel for unknown handles.
func (l *Library) DbLastError(h resource.Handle) string {
	c, ok := l.conns.Get(h)
	if !ok {
		var absent *conn.Conn
		return absent.LastError()
	}
	return c.LastError()
}

// DbClose closes the connection behind h and revokes the handle.
// Unknown handles are a no-op; the handle cannot be closed twice
// because the first close removes it from the table.
func (l *Library) DbClose(h resource.Handle) error {
	// Remove drops the connection via its Dropper hookup.
	_, _ = l.conns.Remove(h)
	return nil
}

// ConnCount returns the number of live connections.
func (l *Library) ConnCount() int {
	return l.conns.Len()
}
