package conn

import (
	"errors"
	"strings"
)

// FailureMarker is the substring SimulatedExecutor treats as a request
// to fail, standing in for a real execution engine's error path.
const FailureMarker = "ERROR"

// errSimulated is the recorded message for a simulated failure.
var errSimulated = errors.New("Simulated query error")

// Executor runs commands on behalf of a connection. Implementations
// return nil on success; the error message of a failure is recorded as
// the connection's last error and surfaces as a ComputationFailed
// status.
type Executor interface {
	Exec(command string) error
}

// SimulatedExecutor accepts every command except those containing
// FailureMarker. It is the default executor and exists so the
// connection lifecycle can be exercised without a real engine behind
// it.
type SimulatedExecutor struct{}

func (SimulatedExecutor) Exec(command string) error {
	if strings.Contains(command, FailureMarker) {
		return errSimulated
	}
	return nil
}
