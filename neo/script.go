package neo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ScriptBuilder assembles NeoVM bytecode. Encoding is canonical: every
// push uses the smallest opcode class that can represent its operand.
// Errors are sticky; Bytes reports the first one.
type ScriptBuilder struct {
	buf bytes.Buffer
	err error
}

// Emit appends a bare opcode.
func (b *ScriptBuilder) Emit(op Opcode) {
	if b.err != nil {
		return
	}
	b.buf.WriteByte(byte(op))
}

// PushData pushes a byte string, selecting the minimal size class:
// bare length byte up to 75 bytes, then PUSHDATA1/2/4 with a
// little-endian length prefix.
func (b *ScriptBuilder) PushData(data []byte) {
	if b.err != nil {
		return
	}
	n := len(data)
	switch {
	case n <= maxDirectPush:
		b.buf.WriteByte(byte(n))
	case n <= math.MaxUint8:
		b.buf.WriteByte(byte(OpPushData1))
		b.buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		b.buf.WriteByte(byte(OpPushData2))
		var l [2]byte
		binary.LittleEndian.PutUint16(l[:], uint16(n))
		b.buf.Write(l[:])
	case int64(n) <= math.MaxUint32:
		b.buf.WriteByte(byte(OpPushData4))
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(n))
		b.buf.Write(l[:])
	default:
		b.err = ErrScriptTooLarge
		return
	}
	b.buf.Write(data)
}

// PushData1 pushes a byte string with explicit PUSHDATA1 framing even when
// a direct push would fit. Witness scripts use this fixed form: address
// derivation hashes the verification script, so its encoding must match
// the network's canonical account script byte for byte.
func (b *ScriptBuilder) PushData1(data []byte) {
	if b.err != nil {
		return
	}
	if len(data) > math.MaxUint8 {
		b.err = ErrScriptTooLarge
		return
	}
	b.buf.WriteByte(byte(OpPushData1))
	b.buf.WriteByte(byte(len(data)))
	b.buf.Write(data)
}

// PushString pushes the UTF-8 bytes of s.
func (b *ScriptBuilder) PushString(s string) {
	b.PushData([]byte(s))
}

// PushInt pushes an integer: PUSH0/PUSH1..PUSH16 for 0..16, otherwise the
// smallest of PUSHINT8/16/32/64 with a signed little-endian operand.
func (b *ScriptBuilder) PushInt(n int64) {
	if b.err != nil {
		return
	}
	switch {
	case n == 0:
		b.Emit(OpPush0)
	case n >= 1 && n <= 16:
		b.buf.WriteByte(byte(OpPush1) + byte(n-1))
	case n >= math.MinInt8 && n <= math.MaxInt8:
		b.Emit(OpPushInt8)
		b.buf.WriteByte(byte(int8(n)))
	case n >= math.MinInt16 && n <= math.MaxInt16:
		b.Emit(OpPushInt16)
		var v [2]byte
		binary.LittleEndian.PutUint16(v[:], uint16(int16(n)))
		b.buf.Write(v[:])
	case n >= math.MinInt32 && n <= math.MaxInt32:
		b.Emit(OpPushInt32)
		var v [4]byte
		binary.LittleEndian.PutUint32(v[:], uint32(int32(n)))
		b.buf.Write(v[:])
	default:
		b.Emit(OpPushInt64)
		var v [8]byte
		binary.LittleEndian.PutUint64(v[:], uint64(n))
		b.buf.Write(v[:])
	}
}

// PushBool pushes a boolean as an integer, matching parameter encoding.
func (b *ScriptBuilder) PushBool(v bool) {
	if v {
		b.PushInt(1)
	} else {
		b.PushInt(0)
	}
}

// PushParam pushes a typed contract-call argument.
func (b *ScriptBuilder) PushParam(v interface{}) {
	if b.err != nil {
		return
	}
	switch p := v.(type) {
	case string:
		b.PushString(p)
	case []byte:
		b.PushData(p)
	case bool:
		b.PushBool(p)
	case int:
		b.PushInt(int64(p))
	case int64:
		b.PushInt(p)
	case uint32:
		b.PushInt(int64(p))
	case uint64:
		if p > math.MaxInt64 {
			b.err = fmt.Errorf("integer parameter %d overflows int64", p)
			return
		}
		b.PushInt(int64(p))
	case Uint160:
		b.PushData(p.BytesLE())
	default:
		b.err = fmt.Errorf("unsupported parameter type %T", v)
	}
}

// Syscall emits the SYSCALL opcode followed by the little-endian interop
// service identifier.
func (b *ScriptBuilder) Syscall(id uint32) {
	if b.err != nil {
		return
	}
	b.Emit(OpSyscall)
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], id)
	b.buf.Write(v[:])
}

// Pack emits PACK, consuming the previously pushed item count and items
// into a single array value.
func (b *ScriptBuilder) Pack() {
	b.Emit(OpPack)
}

// Len reports the current script length in bytes.
func (b *ScriptBuilder) Len() int {
	return b.buf.Len()
}

// Bytes returns the assembled script, or the first construction error.
func (b *ScriptBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.buf.Bytes(), nil
}

// BuildContractCall assembles the canonical invocation of method on
// contract. Arguments are pushed in reverse so PACK yields them in call
// order, and the contract hash is pushed in its little-endian wire form.
func BuildContractCall(contract Uint160, method string, args ...interface{}) ([]byte, error) {
	var b ScriptBuilder
	for i := len(args) - 1; i >= 0; i-- {
		b.PushParam(args[i])
	}
	b.PushInt(int64(len(args)))
	b.Pack()
	b.PushString(method)
	b.PushData(contract.BytesLE())
	b.Syscall(InteropSystemContractCall)
	return b.Bytes()
}
