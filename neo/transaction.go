package neo

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// WitnessScope limits where a signer's authorization applies.
type WitnessScope byte

const (
	ScopeNone            WitnessScope = 0x00
	ScopeCalledByEntry   WitnessScope = 0x01
	ScopeCustomContracts WitnessScope = 0x10
	ScopeGlobal          WitnessScope = 0x80
)

// Signer authorizes a transaction with a witness under the given scope.
type Signer struct {
	Account Uint160
	Scope   WitnessScope
}

// Witness is the proof of authorization for one signer: an invocation
// script that pushes the signature and the verification script it must
// satisfy.
type Witness struct {
	Invocation   []byte
	Verification []byte
}

// Transaction is a Neo N3 transaction. Field order and encoding follow the
// fixed wire format; serialization is deterministic.
type Transaction struct {
	Version         byte
	Nonce           uint32
	SystemFee       uint64
	NetworkFee      uint64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      [][]byte
	Script          []byte
	Witnesses       []Witness
}

// SerializeUnsigned encodes the transaction without witnesses: version,
// nonce, fees (varint), validUntilBlock, signers, attributes and script.
func (t *Transaction) SerializeUnsigned() []byte {
	var buf bytes.Buffer
	buf.WriteByte(t.Version)

	var nonce [4]byte
	binary.LittleEndian.PutUint32(nonce[:], t.Nonce)
	buf.Write(nonce[:])

	writeVarUint(&buf, t.SystemFee)
	writeVarUint(&buf, t.NetworkFee)

	var vub [4]byte
	binary.LittleEndian.PutUint32(vub[:], t.ValidUntilBlock)
	buf.Write(vub[:])

	buf.WriteByte(byte(len(t.Signers)))
	for _, s := range t.Signers {
		buf.Write(s.Account.BytesLE())
		buf.WriteByte(byte(s.Scope))
	}

	buf.WriteByte(byte(len(t.Attributes)))
	for _, a := range t.Attributes {
		buf.Write(a)
	}

	writeVarBytes(&buf, t.Script)
	return buf.Bytes()
}

// Serialize encodes the signed transaction: the unsigned form followed by
// the witnesses. Exactly one witness per signer is required.
func (t *Transaction) Serialize() ([]byte, error) {
	if len(t.Witnesses) != len(t.Signers) {
		return nil, fmt.Errorf("%w: %d witnesses, %d signers", ErrWitnessMismatch, len(t.Witnesses), len(t.Signers))
	}
	var buf bytes.Buffer
	buf.Write(t.SerializeUnsigned())
	buf.WriteByte(byte(len(t.Witnesses)))
	for _, w := range t.Witnesses {
		writeVarBytes(&buf, w.Invocation)
		writeVarBytes(&buf, w.Verification)
	}
	return buf.Bytes(), nil
}

// ID returns the transaction hash: SHA-256 of the unsigned serialization,
// displayed reversed with a 0x prefix.
func (t *Transaction) ID() string {
	h := sha256.Sum256(t.SerializeUnsigned())
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return "0x" + hex.EncodeToString(h[:])
}

// WriteVarUint encodes v in the canonical variable-length form: one byte
// below 0xFD, otherwise the smallest of the 0xFD/0xFE/0xFF marker classes
// followed by a little-endian value.
func WriteVarUint(w io.Writer, v uint64) error {
	var buf [9]byte
	n := putVarUint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// ReadVarUint decodes a canonical variable-length integer.
func ReadVarUint(r io.Reader) (uint64, error) {
	var marker [1]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return 0, err
	}
	switch marker[0] {
	case 0xFD:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	case 0xFE:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xFF:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	default:
		return uint64(marker[0]), nil
	}
}

// VarUintSize reports the encoded size of v in bytes.
func VarUintSize(v uint64) int {
	switch {
	case v < 0xFD:
		return 1
	case v <= 0xFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

func putVarUint(buf []byte, v uint64) int {
	switch {
	case v < 0xFD:
		buf[0] = byte(v)
		return 1
	case v <= 0xFFFF:
		buf[0] = 0xFD
		binary.LittleEndian.PutUint16(buf[1:], uint16(v))
		return 3
	case v <= 0xFFFFFFFF:
		buf[0] = 0xFE
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
		return 5
	default:
		buf[0] = 0xFF
		binary.LittleEndian.PutUint64(buf[1:], v)
		return 9
	}
}

func writeVarUint(buf *bytes.Buffer, v uint64) {
	var b [9]byte
	n := putVarUint(b[:], v)
	buf.Write(b[:n])
}

func writeVarBytes(buf *bytes.Buffer, b []byte) {
	writeVarUint(buf, uint64(len(b)))
	buf.Write(b)
}
