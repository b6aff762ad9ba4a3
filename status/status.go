package status

import (
	"errors"
	"fmt"
)

// Code is the stable numeric result taxonomy shared across the binary
// interface. The values are part of the ABI and must never change.
type Code int32

const (
	OK                Code = 0
	NullPointer       Code = -1
	InvalidInput      Code = -2
	ComputationFailed Code = -3
)

// Message returns the human-readable message for a code. The mapping is
// total: unrecognized codes map to "Unknown error".
func Message(c Code) string {
	switch c {
	case OK:
		return "Success"
	case NullPointer:
		return "Null pointer provided"
	case InvalidInput:
		return "Invalid input"
	case ComputationFailed:
		return "Computation failed"
	default:
		return "Unknown error"
	}
}

func (c Code) String() string {
	return Message(c)
}

// Error is the structured error type used throughout the library. It
// carries the failing operation and the ABI code the failure maps to.
type Error struct {
	Op     string
	Code   Code
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = Message(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two status errors match
// when they carry the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NullArg reports a required argument that was absent.
func NullArg(op, what string) *Error {
	return &Error{
		Op:     op,
		Code:   NullPointer,
		Detail: fmt.Sprintf("%s is required", what),
	}
}

// Invalid reports an argument or state that is present but semantically
// invalid.
func Invalid(op, detail string) *Error {
	return &Error{
		Op:     op,
		Code:   InvalidInput,
		Detail: detail,
	}
}

// Failed reports an operation that was attempted and failed at a deeper
// layer.
func Failed(op, detail string, cause error) *Error {
	return &Error{
		Op:     op,
		Code:   ComputationFailed,
		Detail: detail,
		Cause:  cause,
	}
}

// CodeOf maps any error to its ABI code. The mapping is total: nil maps
// to OK, structured errors carry their own code, and anything else maps
// to ComputationFailed.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ComputationFailed
}
