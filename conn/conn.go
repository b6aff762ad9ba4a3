package conn

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/hostlib/status"
)

// ErrClosed is returned by Close when the connection is already closed.
var ErrClosed = errors.New("conn: already closed")

// lastErrorLimit bounds the stored last-error message in bytes.
const lastErrorLimit = 256

// nullConnError is the sentinel LastError returns for an absent
// connection.
const nullConnError = "Null connection"

// Conn is a simulated connection-like resource. Its state is reachable
// only through the lifecycle methods; there is no direct field access.
type Conn struct {
	path    string
	open    bool
	lastErr string
	ops     int
	exec    Executor
	mu      sync.Mutex
}

// Open creates a connection for path. An empty path fails with a
// NullPointer-coded error and no connection is allocated.
func Open(path string) (*Conn, error) {
	return OpenWithExecutor(path, SimulatedExecutor{})
}

// OpenWithExecutor creates a connection backed by a custom Executor.
func OpenWithExecutor(path string, exec Executor) (*Conn, error) {
	if path == "" {
		return nil, status.NullArg("conn.Open", "path")
	}
	if exec == nil {
		exec = SimulatedExecutor{}
	}

	c := &Conn{
		path: path,
		open: true,
		exec: exec,
	}
	Logger().Debug("connection opened", zap.String("path", path))
	return c, nil
}

// Execute runs a command on the connection. A nil connection or empty
// command fails with a NullPointer code. A closed connection records
// "Not connected" and fails with InvalidInput. Executor failures record
// their message and fail with ComputationFailed; success clears the
// last error. Every attempt on an open connection counts, including
// failed ones.
func (c *Conn) Execute(command string) error {
	if c == nil || command == "" {
		return status.NullArg("conn.Execute", "connection and command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		c.lastErr = "Not connected"
		return status.Invalid("conn.Execute", "not connected")
	}

	c.ops++
	Logger().Debug("executing command",
		zap.String("path", c.path),
		zap.Int("op", c.ops),
		zap.String("command", command))

	if err := c.exec.Exec(command); err != nil {
		c.lastErr = truncate(err.Error(), lastErrorLimit)
		return status.Failed("conn.Execute", "command failed", err)
	}

	c.lastErr = ""
	return nil
}

// LastError returns the message recorded by the most recent failed
// operation, or "" after a success. An absent connection returns the
// "Null connection" sentinel.
func (c *Conn) LastError() string {
	if c == nil {
		return nullConnError
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close releases the connection. Closing an absent connection is a
// no-op; closing twice returns ErrClosed rather than corrupting state.
func (c *Conn) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return ErrClosed
	}
	c.open = false
	Logger().Debug("connection closed",
		zap.String("path", c.path),
		zap.Int("ops", c.ops))
	return nil
}

// Drop closes the connection, discarding the already-closed failure.
// It exists so a resource table can reclaim connections uniformly.
func (c *Conn) Drop() {
	_ = c.Close()
}

// Path returns the identifier the connection was opened with.
func (c *Conn) Path() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// IsOpen reports whether the connection accepts commands.
func (c *Conn) IsOpen() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// OperationCount returns the number of Execute attempts made while the
// connection was open.
func (c *Conn) OperationCount() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ops
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
