// Package base58check implements the checksummed Base58 encoding used by
// Neo for addresses and WIF-encoded private keys. The raw alphabet codec is
// mr-tron/base58; this package adds the 4-byte double-SHA256 checksum layer.
package base58check

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

const checksumSize = 4

var (
	ErrInvalidEncoding  = fmt.Errorf("invalid base58 encoding")
	ErrChecksumMismatch = fmt.Errorf("base58 checksum mismatch")
)

// Decode decodes raw base58 text without checksum verification.
func Decode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// DecodeChecked decodes base58 text and verifies the trailing 4-byte
// checksum, returning the payload without the checksum.
func DecodeChecked(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < checksumSize+1 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidEncoding, len(b))
	}
	payload := b[:len(b)-checksumSize]
	sum := checksum(payload)
	if !bytes.Equal(sum[:], b[len(b)-checksumSize:]) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}

// EncodeChecked appends the 4-byte checksum to payload and encodes the
// result as base58 text.
func EncodeChecked(payload []byte) string {
	sum := checksum(payload)
	b := make([]byte, 0, len(payload)+checksumSize)
	b = append(b, payload...)
	b = append(b, sum[:]...)
	return base58.Encode(b)
}

// checksum is the first 4 bytes of double SHA-256 over data.
func checksum(data []byte) [checksumSize]byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	var out [checksumSize]byte
	copy(out[:], second[:checksumSize])
	return out
}
