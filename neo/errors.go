package neo

import "errors"

var (
	// ErrInvalidWIF is returned when WIF text does not decode to a
	// version byte plus a 32-byte key scalar.
	ErrInvalidWIF = errors.New("invalid WIF")

	// ErrInvalidHash is returned for malformed script hash text.
	ErrInvalidHash = errors.New("invalid script hash")

	// ErrInvalidAddress is returned for malformed or wrong-version addresses.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrScriptTooLarge is returned when a data push exceeds the largest
	// PUSHDATA size class.
	ErrScriptTooLarge = errors.New("script element exceeds PUSHDATA4 limit")

	// ErrSigning is returned when signature generation fails.
	ErrSigning = errors.New("signing failed")

	// ErrWitnessMismatch is returned when a transaction is serialized in
	// signed form without one witness per signer.
	ErrWitnessMismatch = errors.New("witness count does not match signer count")
)
