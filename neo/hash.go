package neo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160"
)

// Uint160 is a 20-byte account or contract identifier, stored big-endian
// as in the display form. The VM wire form is little-endian; use BytesLE
// when pushing a hash into a script.
type Uint160 [20]byte

// Uint160FromHex parses the display form: optional 0x prefix plus 40 hex
// characters in big-endian byte order.
func Uint160FromHex(s string) (Uint160, error) {
	var u Uint160
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 2*len(u) {
		return u, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidHash, 2*len(u), len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	copy(u[:], b)
	return u, nil
}

// String returns the 0x-prefixed big-endian hex display form.
func (u Uint160) String() string {
	return "0x" + hex.EncodeToString(u[:])
}

// BytesLE returns the little-endian wire form.
func (u Uint160) BytesLE() []byte {
	b := make([]byte, len(u))
	for i := range u {
		b[i] = u[len(u)-1-i]
	}
	return b
}

// Uint160FromBytesLE builds a Uint160 from the little-endian wire form.
func Uint160FromBytesLE(b []byte) (Uint160, error) {
	var u Uint160
	if len(b) != len(u) {
		return u, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, len(u), len(b))
	}
	for i := range u {
		u[i] = b[len(b)-1-i]
	}
	return u, nil
}

// Hash160 computes RIPEMD160(SHA256(b)), the hash used for script hashes.
func Hash160(b []byte) Uint160 {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	// The raw digest is the little-endian wire form; the display form
	// reverses it.
	u, _ := Uint160FromBytesLE(h.Sum(nil))
	return u
}
