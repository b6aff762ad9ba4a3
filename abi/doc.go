// Package abi pins down the byte-level contract of the binary
// interface: the Sample struct layout and string ownership transfer
// through caller memory.
//
// Sample's layout is frozen; interop with existing callers depends on
// the 12-byte natural-alignment encoding produced by EncodeSample.
//
// Strings cross the boundary as (ptr, len) pairs. ReadString copies in
// from caller memory; WriteString allocates in caller memory and
// transfers ownership, to be released with FreeString exactly once.
package abi
