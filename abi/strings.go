package abi

import (
	"unicode/utf8"

	"github.com/wippyai/hostlib"
	"github.com/wippyai/hostlib/status"
)

// ReadString copies a (ptr, len) string out of caller memory.
func ReadString(mem hostlib.Memory, ptr, length uint32) (string, error) {
	if mem == nil {
		return "", status.NullArg("abi.ReadString", "memory")
	}
	if length == 0 {
		return "", nil
	}

	data, err := mem.Read(ptr, length)
	if err != nil {
		return "", status.Invalid("abi.ReadString", "string out of bounds")
	}
	if !utf8.Valid(data) {
		return "", status.Invalid("abi.ReadString", "invalid UTF-8")
	}
	return string(data), nil
}

// WriteString allocates caller memory and copies s into it. Ownership
// of the returned region transfers to the caller, who must release it
// through FreeString exactly once. Releasing twice is prevented only by
// the caller's discipline, exactly as on any C-style boundary.
func WriteString(mem hostlib.Memory, alloc hostlib.Allocator, s string) (ptr, length uint32, err error) {
	if mem == nil || alloc == nil {
		return 0, 0, status.NullArg("abi.WriteString", "memory and allocator")
	}

	length = uint32(len(s))
	if length == 0 {
		return 0, 0, nil
	}

	ptr, err = alloc.Alloc(length)
	if err != nil {
		return 0, 0, status.Failed("abi.WriteString", "allocation failed", err)
	}
	if err := mem.Write(ptr, []byte(s)); err != nil {
		alloc.Free(ptr, length)
		return 0, 0, status.Invalid("abi.WriteString", "write out of bounds")
	}
	return ptr, length, nil
}

// FreeString releases a region previously returned by WriteString.
// Freeing the zero region is a no-op.
func FreeString(alloc hostlib.Allocator, ptr, length uint32) {
	if alloc == nil || length == 0 {
		return
	}
	alloc.Free(ptr, length)
}
