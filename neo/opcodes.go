package neo

// Opcode is a single NeoVM instruction byte.
type Opcode byte

// NeoVM opcodes used by script construction.
const (
	OpPushInt8  Opcode = 0x00
	OpPushInt16 Opcode = 0x01
	OpPushInt32 Opcode = 0x02
	OpPushInt64 Opcode = 0x03
	OpPushData1 Opcode = 0x0C
	OpPushData2 Opcode = 0x0D
	OpPushData4 Opcode = 0x0E
	OpPushM1    Opcode = 0x0F
	OpPush0     Opcode = 0x10
	OpPush1     Opcode = 0x11
	OpPush16    Opcode = 0x20
	OpSyscall   Opcode = 0x41
	OpPack      Opcode = 0xC0
)

// maxDirectPush is the largest data push encoded with a bare length byte.
const maxDirectPush = 75

// Interop service identifiers. The wire form is the first four bytes of
// SHA-256 over the service name, emitted as a little-endian uint32 after
// the SYSCALL opcode.
const (
	InteropSystemContractCall   uint32 = 0x525b7d62 // System.Contract.Call
	InteropSystemCryptoCheckSig uint32 = 0x27b3e756 // System.Crypto.CheckSig
)
