package neo

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	cases := []struct {
		value uint64
		size  int
	}{
		{0, 1},
		{0xFC, 1},
		{0xFD, 3},
		{0xFFFF, 3},
		{0x10000, 5},
		{0xFFFFFFFF, 5},
		{0x100000000, 9},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarUint(&buf, tc.value))
		assert.Equal(t, tc.size, buf.Len(), "encoded size of %#x", tc.value)
		assert.Equal(t, tc.size, VarUintSize(tc.value))

		decoded, err := ReadVarUint(&buf)
		require.NoError(t, err)
		assert.Equal(t, tc.value, decoded, "round trip of %#x", tc.value)
	}
}

func testTransaction() *Transaction {
	var account Uint160
	for i := range account {
		account[i] = byte(i)
	}
	return &Transaction{
		Version:         0,
		Nonce:           0xDEADBEEF,
		SystemFee:       1_0000_0000,
		NetworkFee:      345678,
		ValidUntilBlock: 54321,
		Signers:         []Signer{{Account: account, Scope: ScopeCalledByEntry}},
		Script:          []byte{0x11, 0x12},
	}
}

func TestSerializeUnsignedLayout(t *testing.T) {
	tx := testTransaction()
	raw := tx.SerializeUnsigned()

	r := bytes.NewReader(raw)
	version, _ := r.ReadByte()
	assert.Equal(t, tx.Version, version)

	var nonce [4]byte
	_, err := r.Read(nonce[:])
	require.NoError(t, err)
	assert.Equal(t, tx.Nonce, binary.LittleEndian.Uint32(nonce[:]))

	sysFee, err := ReadVarUint(r)
	require.NoError(t, err)
	assert.Equal(t, tx.SystemFee, sysFee)

	netFee, err := ReadVarUint(r)
	require.NoError(t, err)
	assert.Equal(t, tx.NetworkFee, netFee)

	var vub [4]byte
	_, err = r.Read(vub[:])
	require.NoError(t, err)
	assert.Equal(t, tx.ValidUntilBlock, binary.LittleEndian.Uint32(vub[:]))

	signerCount, _ := r.ReadByte()
	assert.Equal(t, byte(1), signerCount)
	var account [20]byte
	_, err = r.Read(account[:])
	require.NoError(t, err)
	assert.Equal(t, tx.Signers[0].Account.BytesLE(), account[:])
	scope, _ := r.ReadByte()
	assert.Equal(t, byte(ScopeCalledByEntry), scope)

	attrCount, _ := r.ReadByte()
	assert.Equal(t, byte(0), attrCount)

	scriptLen, err := ReadVarUint(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(tx.Script)), scriptLen)
	script := make([]byte, scriptLen)
	_, err = r.Read(script)
	require.NoError(t, err)
	assert.Equal(t, tx.Script, script)
	assert.Zero(t, r.Len(), "no trailing bytes")
}

func TestSerializeDeterminism(t *testing.T) {
	tx := testTransaction()
	assert.Equal(t, tx.SerializeUnsigned(), tx.SerializeUnsigned())

	tx.Witnesses = []Witness{{
		Invocation:   bytes.Repeat([]byte{0x01}, 66),
		Verification: bytes.Repeat([]byte{0x02}, 40),
	}}
	first, err := tx.Serialize()
	require.NoError(t, err)
	second, err := tx.Serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Witnesses follow the unsigned form verbatim.
	assert.Equal(t, tx.SerializeUnsigned(), first[:len(tx.SerializeUnsigned())])
	assert.Equal(t, byte(1), first[len(tx.SerializeUnsigned())])
}

func TestSerializeRequiresWitnessPerSigner(t *testing.T) {
	tx := testTransaction()
	_, err := tx.Serialize()
	assert.ErrorIs(t, err, ErrWitnessMismatch)

	tx.Witnesses = []Witness{{}, {}}
	_, err = tx.Serialize()
	assert.ErrorIs(t, err, ErrWitnessMismatch)
}

func TestTransactionID(t *testing.T) {
	tx := testTransaction()
	id := tx.ID()
	assert.Len(t, id, 2+64)
	assert.Equal(t, "0x", id[:2])
	assert.Equal(t, id, tx.ID(), "hash is stable")

	tx.Nonce++
	assert.NotEqual(t, id, tx.ID(), "hash covers the nonce")
}
