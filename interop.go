package hostlib

// Memory represents a caller's linear memory as seen from the host side
// of the binary interface.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates memory inside the caller's address space.
// Strings returned to a caller are written through an Allocator and
// ownership transfers to the caller, who must release them through the
// matching Free exactly once.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr, size uint32)
}
