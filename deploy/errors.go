package deploy

import "errors"

var (
	// ErrUnreachable is returned when the node cannot be contacted during
	// validation.
	ErrUnreachable = errors.New("node unreachable")

	// ErrInsufficientFunds is returned when the account balance is below
	// the configured minimum, before any transaction is built.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidInput is returned for malformed WIF, NEF, manifest or
	// configuration input, before any network mutation.
	ErrInvalidInput = errors.New("invalid input format")
)
