package neo

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushDataSizeClasses(t *testing.T) {
	cases := []struct {
		length     int
		opcode     Opcode
		prefixSize int
	}{
		{0, 0, 0},     // bare length byte
		{75, 0, 0},    // largest direct push
		{76, OpPushData1, 1},
		{255, OpPushData1, 1},
		{256, OpPushData2, 2},
		{65535, OpPushData2, 2},
		{65536, OpPushData4, 4},
	}
	for _, tc := range cases {
		data := bytes.Repeat([]byte{0xAB}, tc.length)
		var b ScriptBuilder
		b.PushData(data)
		script, err := b.Bytes()
		require.NoError(t, err)

		var decodedLen int
		var header int
		if tc.opcode == 0 {
			decodedLen = int(script[0])
			header = 1
		} else {
			assert.Equal(t, byte(tc.opcode), script[0], "length %d", tc.length)
			switch tc.prefixSize {
			case 1:
				decodedLen = int(script[1])
			case 2:
				decodedLen = int(binary.LittleEndian.Uint16(script[1:3]))
			case 4:
				decodedLen = int(binary.LittleEndian.Uint32(script[1:5]))
			}
			header = 1 + tc.prefixSize
		}
		assert.Equal(t, tc.length, decodedLen, "decoded length prefix for %d", tc.length)
		assert.Equal(t, data, script[header:], "payload for %d", tc.length)
	}
}

func TestPushInt(t *testing.T) {
	t.Run("Small Integers Use Dedicated Opcodes", func(t *testing.T) {
		cases := map[int64][]byte{
			0:  {byte(OpPush0)},
			1:  {byte(OpPush1)},
			2:  {0x12},
			16: {byte(OpPush16)},
		}
		for n, want := range cases {
			var b ScriptBuilder
			b.PushInt(n)
			script, err := b.Bytes()
			require.NoError(t, err)
			assert.Equal(t, want, script, "pushInt(%d)", n)
		}
	})

	t.Run("Fixed Width Selects Minimal Class", func(t *testing.T) {
		cases := map[int64][]byte{
			17:     {byte(OpPushInt8), 17},
			-1:     {byte(OpPushInt8), 0xFF},
			127:    {byte(OpPushInt8), 0x7F},
			128:    {byte(OpPushInt16), 0x80, 0x00},
			-32768: {byte(OpPushInt16), 0x00, 0x80},
			32768:  {byte(OpPushInt32), 0x00, 0x80, 0x00, 0x00},
			1 << 31: {byte(OpPushInt64), 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00},
		}
		for n, want := range cases {
			var b ScriptBuilder
			b.PushInt(n)
			script, err := b.Bytes()
			require.NoError(t, err)
			assert.Equal(t, want, script, "pushInt(%d)", n)
		}
	})
}

func TestSyscallEncoding(t *testing.T) {
	var b ScriptBuilder
	b.Syscall(InteropSystemContractCall)
	script, err := b.Bytes()
	require.NoError(t, err)
	// SYSCALL + first four bytes of SHA256("System.Contract.Call").
	assert.Equal(t, []byte{0x41, 0x62, 0x7D, 0x5B, 0x52}, script)
}

func TestBuildContractCall(t *testing.T) {
	contract, err := Uint160FromHex("0xfffdc93764dbaddd97c48f252a53ea4643faa3fd")
	require.NoError(t, err)

	script, err := BuildContractCall(contract, "deploy", []byte{0xAA, 0xBB}, "manifest")
	require.NoError(t, err)

	want := []byte{
		// args pushed in reverse: "manifest" first, then the NEF bytes
		8, 'm', 'a', 'n', 'i', 'f', 'e', 's', 't',
		2, 0xAA, 0xBB,
		byte(OpPush1) + 1, // arg count 2
		byte(OpPack),
		6, 'd', 'e', 'p', 'l', 'o', 'y',
		// contract hash in little-endian wire order
		20,
		0xfd, 0xa3, 0xfa, 0x43, 0x46, 0xea, 0x53, 0x2a, 0x25, 0x8f,
		0xc4, 0x97, 0xdd, 0xad, 0xdb, 0x64, 0x37, 0xc9, 0xfd, 0xff,
		byte(OpSyscall), 0x62, 0x7D, 0x5B, 0x52,
	}
	assert.Equal(t, want, script)
}

func TestPushDataRejectsOversize(t *testing.T) {
	// Drive the sticky error path without allocating 4 GiB: an unsupported
	// parameter type also latches the error.
	var b ScriptBuilder
	b.PushParam(struct{}{})
	_, err := b.Bytes()
	assert.Error(t, err)
}
