package conn

import (
	"errors"
	"testing"

	"github.com/wippyai/hostlib/status"
)

func TestOpen_EmptyPath(t *testing.T) {
	c, err := Open("")
	if err == nil {
		t.Fatal("expected error for empty path")
	}
	if c != nil {
		t.Fatal("expected nil connection on failure")
	}
	if status.CodeOf(err) != status.NullPointer {
		t.Fatalf("CodeOf = %d, want NullPointer", status.CodeOf(err))
	}
}

func TestConn_Lifecycle(t *testing.T) {
	c, err := Open("/tmp/test.db")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !c.IsOpen() {
		t.Fatal("connection not open after Open")
	}
	if c.Path() != "/tmp/test.db" {
		t.Fatalf("Path() = %q", c.Path())
	}
	if c.OperationCount() != 0 {
		t.Fatalf("OperationCount() = %d, want 0", c.OperationCount())
	}

	if err := c.Execute("SELECT 1"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if c.LastError() != "" {
		t.Fatalf("LastError() = %q after success, want empty", c.LastError())
	}
	if c.OperationCount() != 1 {
		t.Fatalf("OperationCount() = %d, want 1", c.OperationCount())
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if c.IsOpen() {
		t.Fatal("connection still open after Close")
	}
}

func TestConn_SimulatedFailure(t *testing.T) {
	c, err := Open("x")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	err = c.Execute("DO ERROR")
	if err == nil {
		t.Fatal("expected simulated failure")
	}
	if status.CodeOf(err) != status.ComputationFailed {
		t.Fatalf("CodeOf = %d, want ComputationFailed", status.CodeOf(err))
	}
	if c.LastError() != "Simulated query error" {
		t.Fatalf("LastError() = %q", c.LastError())
	}

	// Failed attempts still count.
	if c.OperationCount() != 1 {
		t.Fatalf("OperationCount() = %d, want 1", c.OperationCount())
	}

	// A following success clears the recorded error.
	if err := c.Execute("SELECT 1"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if c.LastError() != "" {
		t.Fatalf("LastError() = %q after success, want empty", c.LastError())
	}
}

func TestConn_ExecuteAfterClose(t *testing.T) {
	c, err := Open("x")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	err = c.Execute("SELECT 1")
	if err == nil {
		t.Fatal("expected failure on closed connection")
	}
	if status.CodeOf(err) != status.InvalidInput {
		t.Fatalf("CodeOf = %d, want InvalidInput", status.CodeOf(err))
	}
	if c.LastError() != "Not connected" {
		t.Fatalf("LastError() = %q, want %q", c.LastError(), "Not connected")
	}
}

func TestConn_DoubleClose(t *testing.T) {
	c, err := Open("x")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := c.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v, want ErrClosed", err)
	}
}

func TestConn_NilReceiver(t *testing.T) {
	var c *Conn

	if err := c.Execute("SELECT 1"); status.CodeOf(err) != status.NullPointer {
		t.Fatalf("nil Execute code = %d, want NullPointer", status.CodeOf(err))
	}
	if c.LastError() != "Null connection" {
		t.Fatalf("nil LastError() = %q, want %q", c.LastError(), "Null connection")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close = %v, want nil", err)
	}
	if c.IsOpen() || c.OperationCount() != 0 || c.Path() != "" {
		t.Fatal("nil accessors returned non-zero values")
	}
}

func TestConn_EmptyCommand(t *testing.T) {
	c, err := Open("x")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	err = c.Execute("")
	if status.CodeOf(err) != status.NullPointer {
		t.Fatalf("CodeOf = %d, want NullPointer", status.CodeOf(err))
	}
	// Absent commands are rejected before the attempt is counted.
	if c.OperationCount() != 0 {
		t.Fatalf("OperationCount() = %d, want 0", c.OperationCount())
	}
}

type recordingExecutor struct {
	commands []string
	fail     error
}

func (e *recordingExecutor) Exec(command string) error {
	e.commands = append(e.commands, command)
	return e.fail
}

func TestConn_CustomExecutor(t *testing.T) {
	exec := &recordingExecutor{}
	c, err := OpenWithExecutor("x", exec)
	if err != nil {
		t.Fatalf("OpenWithExecutor failed: %v", err)
	}
	defer c.Close()

	// The simulated failure marker means nothing to a custom executor.
	if err := c.Execute("DO ERROR"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(exec.commands) != 1 || exec.commands[0] != "DO ERROR" {
		t.Fatalf("executor saw %v", exec.commands)
	}
}

func TestConn_LastErrorBounded(t *testing.T) {
	long := make([]byte, 1024)
	for i := range long {
		long[i] = 'x'
	}
	exec := &recordingExecutor{fail: errors.New(string(long))}

	c, err := OpenWithExecutor("x", exec)
	if err != nil {
		t.Fatalf("OpenWithExecutor failed: %v", err)
	}
	defer c.Close()

	if err := c.Execute("anything"); err == nil {
		t.Fatal("expected executor failure")
	}
	if got := len(c.LastError()); got > 256 {
		t.Fatalf("LastError length %d exceeds bound", got)
	}
}
