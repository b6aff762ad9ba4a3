package abi

import (
	"encoding/binary"

	"github.com/wippyai/hostlib/status"
)

// Sample is the structured value exchanged bit-for-bit across the
// binary interface. Its byte layout follows natural C alignment:
//
//	offset 0:  A (u8)
//	offset 4:  B (i32)
//	offset 8:  C (i16)
//
// for a total size of 12 with 4-byte alignment. Padding bytes are
// unspecified on encode and ignored on decode.
type Sample struct {
	A uint8
	B int32
	C int16
}

const (
	SampleSize  = 12
	SampleAlign = 4

	sampleOffA = 0
	sampleOffB = 4
	sampleOffC = 8
)

// EncodeSample lays s out in its ABI byte representation.
// Multi-byte fields are little-endian, matching WASM linear memory.
func EncodeSample(s Sample) [SampleSize]byte {
	var buf [SampleSize]byte
	buf[sampleOffA] = s.A
	binary.LittleEndian.PutUint32(buf[sampleOffB:], uint32(s.B))
	binary.LittleEndian.PutUint16(buf[sampleOffC:], uint16(s.C))
	return buf
}

// DecodeSample reads a Sample from its ABI byte representation.
func DecodeSample(data []byte) (Sample, error) {
	if len(data) < SampleSize {
		return Sample{}, status.Invalid("abi.DecodeSample", "buffer too short")
	}
	return Sample{
		A: data[sampleOffA],
		B: int32(binary.LittleEndian.Uint32(data[sampleOffB:])),
		C: int16(binary.LittleEndian.Uint16(data[sampleOffC:])),
	}, nil
}

// ProcessSample folds the sample's fields into a single value, the
// reference computation callers use to verify layout agreement.
func ProcessSample(s Sample) int32 {
	return int32(s.A) + s.B + int32(s.C)
}
