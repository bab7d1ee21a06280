package neo

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/codahale/rfc6979"
)

// SignatureSize is the fixed length of a transaction signature: r and s,
// each 32 bytes big-endian.
const SignatureSize = 64

// SigningHash computes the digest a witness signature covers: SHA-256 over
// the little-endian network magic followed by the unsigned serialization.
func SigningHash(magic uint32, unsigned []byte) []byte {
	h := sha256.New()
	var m [4]byte
	binary.LittleEndian.PutUint32(m[:], magic)
	h.Write(m[:])
	h.Write(unsigned)
	return h.Sum(nil)
}

// Sign produces a deterministic ECDSA signature over hash using RFC 6979
// nonce derivation, so signing the same hash twice yields identical bytes.
// The result is r ‖ s, each padded to 32 bytes.
func (k *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if k.priv == nil || k.priv.D.Sign() == 0 {
		return nil, fmt.Errorf("%w: key has been zeroed", ErrSigning)
	}
	r, s, err := rfc6979.SignECDSA(k.priv, hash, sha256.New)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	sig := make([]byte, SignatureSize)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// NewAccountWitness builds the witness for a single-signature account: the
// invocation script pushes the signature, the verification script checks it
// against the public key.
func NewAccountWitness(signature, publicKey []byte) (Witness, error) {
	if len(signature) != SignatureSize {
		return Witness{}, fmt.Errorf("%w: signature is %d bytes", ErrSigning, len(signature))
	}
	var b ScriptBuilder
	b.PushData1(signature)
	invocation, err := b.Bytes()
	if err != nil {
		return Witness{}, err
	}
	return Witness{
		Invocation:   invocation,
		Verification: VerificationScript(publicKey),
	}, nil
}
