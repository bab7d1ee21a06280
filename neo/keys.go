package neo

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-price-feed/neo/base58check"
)

// WIFVersion is the fixed version byte of WIF-encoded private keys.
const WIFVersion = 0x80

// wifCompressedFlag marks a WIF whose key maps to a compressed public key.
const wifCompressedFlag = 0x01

// PrivateKey is a secp256r1 private key held in memory for the duration of
// a signing operation. Call Zero once the key is no longer needed.
type PrivateKey struct {
	priv *ecdsa.PrivateKey
	raw  []byte
}

// PrivateKeyFromWIF decodes a WIF string: base58check payload of version
// byte, 32-byte scalar and an optional compression flag.
func PrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	payload, err := base58check.DecodeChecked(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}
	if len(payload) < 1 || payload[0] != WIFVersion {
		return nil, fmt.Errorf("%w: bad version byte", ErrInvalidWIF)
	}
	body := payload[1:]
	if len(body) == 33 && body[32] == wifCompressedFlag {
		body = body[:32]
	}
	if len(body) != 32 {
		return nil, fmt.Errorf("%w: key payload is %d bytes", ErrInvalidWIF, len(body))
	}
	return newPrivateKey(body)
}

func newPrivateKey(b []byte) (*PrivateKey, error) {
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of curve order", ErrInvalidWIF)
	}
	x, y := curve.ScalarBaseMult(b)
	raw := make([]byte, 32)
	copy(raw, b)
	return &PrivateKey{
		priv: &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
			D:         d,
		},
		raw: raw,
	}, nil
}

// PublicKey returns the 33-byte compressed public key point.
func (k *PrivateKey) PublicKey() []byte {
	return elliptic.MarshalCompressed(k.priv.Curve, k.priv.X, k.priv.Y)
}

// VerificationScript returns the single-signature verification script of
// the key's public key.
func (k *PrivateKey) VerificationScript() []byte {
	return VerificationScript(k.PublicKey())
}

// ScriptHash returns the account script hash of the key.
func (k *PrivateKey) ScriptHash() Uint160 {
	return Hash160(k.VerificationScript())
}

// Address returns the base58check address of the key under the given
// address version byte.
func (k *PrivateKey) Address(version byte) string {
	return Address(k.ScriptHash(), version)
}

// Zero wipes the private scalar. The key is unusable afterwards.
func (k *PrivateKey) Zero() {
	for i := range k.raw {
		k.raw[i] = 0
	}
	if k.priv != nil {
		k.priv.D.SetInt64(0)
	}
}

// VerificationScript builds the script that checks a single signature:
// push the compressed public key, then syscall System.Crypto.CheckSig.
// The push always uses PUSHDATA1 framing; the account script hash, and
// with it the address, depends on these exact bytes.
func VerificationScript(publicKey []byte) []byte {
	var b ScriptBuilder
	b.PushData1(publicKey)
	b.Syscall(InteropSystemCryptoCheckSig)
	script, _ := b.Bytes()
	return script
}

// Address encodes version byte plus script hash wire bytes as base58check.
func Address(h Uint160, version byte) string {
	payload := make([]byte, 0, 21)
	payload = append(payload, version)
	payload = append(payload, h.BytesLE()...)
	return base58check.EncodeChecked(payload)
}

// AddressToScriptHash decodes an address and verifies its version byte.
func AddressToScriptHash(addr string, version byte) (Uint160, error) {
	var u Uint160
	payload, err := base58check.DecodeChecked(addr)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(payload) != 21 {
		return u, fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(payload))
	}
	if payload[0] != version {
		return u, fmt.Errorf("%w: version byte 0x%02x, expected 0x%02x", ErrInvalidAddress, payload[0], version)
	}
	return Uint160FromBytesLE(payload[1:])
}
