package neo

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningHash(t *testing.T) {
	unsigned := []byte{0x00, 0x01, 0x02}

	h1 := SigningHash(894710606, unsigned)
	h2 := SigningHash(894710606, unsigned)
	assert.Equal(t, h1, h2, "hash is deterministic")
	assert.Len(t, h1, sha256.Size)

	assert.NotEqual(t, h1, SigningHash(860833102, unsigned), "hash covers the network magic")
	assert.NotEqual(t, h1, SigningHash(894710606, []byte{0x00, 0x01, 0x03}), "hash covers the payload")
}

func TestSignDeterministic(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	defer key.Zero()

	hash := SigningHash(894710606, []byte("payload"))
	sig1, err := key.Sign(hash)
	require.NoError(t, err)
	sig2, err := key.Sign(hash)
	require.NoError(t, err)

	assert.Len(t, sig1, SignatureSize)
	assert.Equal(t, sig1, sig2, "RFC 6979 nonces make repeated signing reproducible")
}

func TestSignatureVerifies(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	defer key.Zero()

	hash := SigningHash(894710606, []byte("payload"))
	sig, err := key.Sign(hash)
	require.NoError(t, err)

	curve := elliptic.P256()
	x, y := elliptic.UnmarshalCompressed(curve, key.PublicKey())
	require.NotNil(t, x, "public key must decompress")
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	assert.True(t, ecdsa.Verify(pub, hash, r, s))
}

func TestNewAccountWitness(t *testing.T) {
	key, err := PrivateKeyFromWIF(testWIF)
	require.NoError(t, err)
	defer key.Zero()

	sig, err := key.Sign(SigningHash(894710606, []byte("payload")))
	require.NoError(t, err)

	w, err := NewAccountWitness(sig, key.PublicKey())
	require.NoError(t, err)

	// PUSHDATA1 + length + 64-byte signature
	require.Len(t, w.Invocation, 66)
	assert.Equal(t, byte(OpPushData1), w.Invocation[0])
	assert.Equal(t, byte(SignatureSize), w.Invocation[1])
	assert.Equal(t, sig, w.Invocation[2:])
	assert.Equal(t, key.VerificationScript(), w.Verification)

	_, err = NewAccountWitness(sig[:63], key.PublicKey())
	assert.ErrorIs(t, err, ErrSigning)
}
