// Package status defines the stable numeric result codes exposed on the
// binary interface and the structured error type built on top of them.
//
// Codes are ABI-frozen: 0 means success and negative values identify
// failure classes. Message lookup is total and never fails; undefined
// codes map to "Unknown error".
//
// Library code returns ordinary Go errors; the boundary layer converts
// them to codes with CodeOf, which is likewise total.
package status
