package deploy

import (
	"fmt"
	"time"
)

// Config carries every network-specific parameter of the pipeline. Nothing
// in the core packages hardcodes these: address version bytes and network
// magics differ per target network and drift when copied around, so they
// are injected here.
type Config struct {
	// RPCEndpoint is the node URL, e.g. http://seed1t5.neo.org:20332.
	RPCEndpoint string

	// NetworkMagic prefixes the signing hash. It must match the target
	// network or every witness verification fails.
	NetworkMagic uint32

	// AddressVersion is the base58check version byte of addresses.
	AddressVersion byte

	// GasToken is the display-form hash of the GAS token contract.
	GasToken string

	// ManagementContract is the display-form hash of the native contract
	// management contract that owns the deploy method.
	ManagementContract string

	// FeePerByte is the fallback network fee rate in datoshi per byte,
	// used when the node does not answer calculatenetworkfee.
	FeePerByte uint64

	// ValidUntilOffset is the block window added to the current height
	// for validUntilBlock.
	ValidUntilOffset uint32

	// MinimumBalance is the GAS balance (datoshi) required before any
	// transaction is built.
	MinimumBalance uint64

	// RPCTimeout bounds each individual node call.
	RPCTimeout time.Duration

	// Deadline bounds the whole Validating→Submitted sequence.
	Deadline time.Duration

	// DryRun stops the pipeline after fee estimation: the script is built
	// and dry-run executed for real, but nothing is signed or submitted.
	DryRun bool
}

// DefaultConfig returns TestNet defaults.
func DefaultConfig() Config {
	return Config{
		RPCEndpoint:        "http://seed1t5.neo.org:20332",
		NetworkMagic:       894710606,
		AddressVersion:     0x35,
		GasToken:           "0xd2a4cff31913016155e38e474a2c06d08be276cf",
		ManagementContract: "0xfffdc93764dbaddd97c48f252a53ea4643faa3fd",
		FeePerByte:         1000,
		ValidUntilOffset:   5760,
		MinimumBalance:     10_0000_0000, // 10 GAS
		RPCTimeout:         30 * time.Second,
		Deadline:           5 * time.Minute,
	}
}

// Validate checks the configuration before any pipeline run.
func (c Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc endpoint not specified")
	}
	if c.NetworkMagic == 0 {
		return fmt.Errorf("network magic not specified")
	}
	if c.AddressVersion == 0 {
		return fmt.Errorf("address version not specified")
	}
	if c.GasToken == "" {
		return fmt.Errorf("gas token hash not specified")
	}
	if c.ManagementContract == "" {
		return fmt.Errorf("management contract hash not specified")
	}
	if c.FeePerByte == 0 {
		return fmt.Errorf("fee per byte not specified")
	}
	if c.ValidUntilOffset == 0 {
		return fmt.Errorf("valid-until offset not specified")
	}
	return nil
}
