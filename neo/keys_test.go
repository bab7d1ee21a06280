package neo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Funded TestNet master account used across the deployment tooling.
const (
	testWIF     = "KzjaqMvqzF1uup6KrTKRxTgjcXE7PbKLRH84e6ckyXDt3fu7afUb"
	testAddress = "NTmHjwiadq4g3VHpJ5FQigQcD4fF5m8TyX"
	testVersion = byte(0x35)
)

func TestPrivateKeyFromWIF(t *testing.T) {
	t.Run("Derives Known Address", func(t *testing.T) {
		key, err := PrivateKeyFromWIF(testWIF)
		require.NoError(t, err)
		defer key.Zero()
		assert.Equal(t, testAddress, key.Address(testVersion))
	})

	t.Run("Compressed Public Key", func(t *testing.T) {
		key, err := PrivateKeyFromWIF(testWIF)
		require.NoError(t, err)
		defer key.Zero()
		pub := key.PublicKey()
		require.Len(t, pub, 33)
		assert.Contains(t, []byte{0x02, 0x03}, pub[0])
	})

	t.Run("Rejects Garbage", func(t *testing.T) {
		for _, wif := range []string{
			"",
			"notawif",
			"KzjaqMvqzF1uup6KrTKRxTgjcXE7PbKLRH84e6ckyXDt3fu7afUa", // corrupted checksum
		} {
			_, err := PrivateKeyFromWIF(wif)
			assert.ErrorIs(t, err, ErrInvalidWIF, "wif %q", wif)
		}
	})
}

func TestVerificationScript(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	defer key.Zero()

	script := key.VerificationScript()
	require.Len(t, script, 40)
	assert.Equal(t, byte(OpPushData1), script[0])
	assert.Equal(t, byte(33), script[1])
	assert.Equal(t, key.PublicKey(), script[2:35])
	// SYSCALL System.Crypto.CheckSig
	assert.Equal(t, []byte{0x41, 0x56, 0xE7, 0xB3, 0x27}, script[35:])
}

func TestAddressRoundTrip(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	defer key.Zero()

	hash := key.ScriptHash()
	addr := Address(hash, testVersion)
	decoded, err := AddressToScriptHash(addr, testVersion)
	require.NoError(t, err)
	assert.Equal(t, hash, decoded)

	t.Run("Wrong Version Byte", func(t *testing.T) {
		_, err := AddressToScriptHash(addr, 0x17)
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})
}

func TestUint160Forms(t *testing.T) {
	display := "0xd2a4cff31913016155e38e474a2c06d08be276cf"
	u, err := Uint160FromHex(display)
	require.NoError(t, err)
	assert.Equal(t, display, u.String())

	le := u.BytesLE()
	back, err := Uint160FromBytesLE(le)
	require.NoError(t, err)
	assert.Equal(t, u, back)
	assert.Equal(t, byte(0xcf), le[0], "wire form is byte-reversed")

	_, err = Uint160FromHex("0x1234")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestZeroMakesKeyUnusable(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	key.Zero()
	_, err = key.Sign(make([]byte, 32))
	assert.ErrorIs(t, err, ErrSigning)
}
