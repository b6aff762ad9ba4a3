package host

import (
	"github.com/tetratelabs/wazero/api"
)

// guestBuilder synthesizes a core wasm guest module for driving the
// binding the way a real guest does. Every imported host function is
// re-exported as a trampoline forwarding its arguments, so tests call
// exports on a normal module; wazero forbids calling a host module's
// exports directly.
type guestBuilder struct {
	imports []guestFunc
	locals  []guestFunc
	memory  bool
}

type guestFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	body    []byte
}

func newGuestBuilder() *guestBuilder {
	return &guestBuilder{}
}

// importFunc imports name from ModuleName and exports a trampoline for
// it under the same name.
func (b *guestBuilder) importFunc(name string, params, results []api.ValueType) {
	b.imports = append(b.imports, guestFunc{name: name, params: params, results: results})
}

// localFunc defines and exports a guest-side function. The body is the
// raw instruction sequence; the empty locals vector and the end opcode
// are added on build.
func (b *guestBuilder) localFunc(name string, params, results []api.ValueType, body []byte) {
	b.locals = append(b.locals, guestFunc{name: name, params: params, results: results, body: body})
}

// withMemory gives the guest one page of linear memory, exported as
// "memory".
func (b *guestBuilder) withMemory() {
	b.memory = true
}

// build generates the wasm binary.
func (b *guestBuilder) build() []byte {
	n := len(b.imports)
	defined := n + len(b.locals)

	out := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}

	// Type section: one entry per import, shared with its trampoline,
	// then one per local function.
	if defined > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(defined))...)
		for _, f := range b.imports {
			sec = appendFuncType(sec, f)
		}
		for _, f := range b.locals {
			sec = appendFuncType(sec, f)
		}
		out = section(out, 0x01, sec)
	}

	// Import section.
	if n > 0 {
		sec := uleb(uint32(n))
		for i, f := range b.imports {
			sec = appendName(sec, ModuleName)
			sec = appendName(sec, f.name)
			sec = append(sec, 0x00)
			sec = append(sec, uleb(uint32(i))...)
		}
		out = section(out, 0x02, sec)
	}

	// Function section: trampolines reuse their import's type index,
	// local functions follow.
	if defined > 0 {
		sec := uleb(uint32(defined))
		for i := 0; i < n; i++ {
			sec = append(sec, uleb(uint32(i))...)
		}
		for j := range b.locals {
			sec = append(sec, uleb(uint32(n+j))...)
		}
		out = section(out, 0x03, sec)
	}

	// Memory section: one memory, min one page.
	if b.memory {
		out = section(out, 0x05, []byte{0x01, 0x00, 0x01})
	}

	// Export section. Function index space: imports occupy [0, n),
	// trampolines [n, 2n), local functions [2n, 2n+m).
	numExports := defined
	if b.memory {
		numExports++
	}
	sec := uleb(uint32(numExports))
	for i, f := range b.imports {
		sec = appendName(sec, f.name)
		sec = append(sec, 0x00)
		sec = append(sec, uleb(uint32(n+i))...)
	}
	for j, f := range b.locals {
		sec = appendName(sec, f.name)
		sec = append(sec, 0x00)
		sec = append(sec, uleb(uint32(2*n+j))...)
	}
	if b.memory {
		sec = appendName(sec, "memory")
		sec = append(sec, 0x02, 0x00)
	}
	out = section(out, 0x07, sec)

	// Code section.
	if defined > 0 {
		sec := uleb(uint32(defined))
		for i, f := range b.imports {
			var body []byte
			body = append(body, 0x00)
			for p := range f.params {
				body = append(body, 0x20)
				body = append(body, uleb(uint32(p))...)
			}
			body = append(body, 0x10)
			body = append(body, uleb(uint32(i))...)
			body = append(body, 0x0b)
			sec = append(sec, uleb(uint32(len(body)))...)
			sec = append(sec, body...)
		}
		for _, f := range b.locals {
			body := append([]byte{0x00}, f.body...)
			body = append(body, 0x0b)
			sec = append(sec, uleb(uint32(len(body)))...)
			sec = append(sec, body...)
		}
		out = section(out, 0x0a, sec)
	}

	return out
}

func section(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

func appendName(sec []byte, name string) []byte {
	sec = append(sec, uleb(uint32(len(name)))...)
	return append(sec, name...)
}

func appendFuncType(sec []byte, f guestFunc) []byte {
	sec = append(sec, 0x60)
	sec = append(sec, uleb(uint32(len(f.params)))...)
	for _, t := range f.params {
		sec = append(sec, valTypeByte(t))
	}
	sec = append(sec, uleb(uint32(len(f.results)))...)
	for _, t := range f.results {
		sec = append(sec, valTypeByte(t))
	}
	return sec
}

func valTypeByte(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI32:
		return 0x7f
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	default:
		return 0x7c
	}
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb32(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// i32Const returns the instruction pushing v.
func i32Const(v int32) []byte {
	return append([]byte{0x41}, sleb32(v)...)
}
