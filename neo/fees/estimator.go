// Package fees prices transactions: the system fee from a dry-run
// execution and the network fee from serialized size.
package fees

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/r3e-network/neo-price-feed/neo"
	"github.com/r3e-network/neo-price-feed/neo/rpc"
)

// ErrExecutionFault is returned when a dry run does not halt cleanly. The
// wrapped message carries the node-reported exception.
var ErrExecutionFault = errors.New("script execution fault")

// SingleSigWitnessSize is the serialized size of one single-signature
// witness plus its framing: the witness count byte, a 66-byte invocation
// script (PUSHDATA1 + 64-byte signature) and a 40-byte verification script
// (PUSHDATA1 + 33-byte key + SYSCALL), each with a 1-byte varint length
// prefix. True witness size is only known after signing; this fixed
// estimate is a deliberate simplification for the one signature scheme in
// use.
const SingleSigWitnessSize = 109

// Estimator prices scripts and transactions against a node.
type Estimator struct {
	client     *rpc.Client
	feePerByte uint64
	log        zerolog.Logger
}

// New creates an estimator. feePerByte is the fallback used when the node
// does not answer calculatenetworkfee.
func New(client *rpc.Client, feePerByte uint64, log zerolog.Logger) *Estimator {
	return &Estimator{client: client, feePerByte: feePerByte, log: log}
}

// SystemFee dry-runs script and returns the gas consumed on a clean halt.
// A faulted execution aborts the pipeline with ErrExecutionFault.
func (e *Estimator) SystemFee(ctx context.Context, script []byte) (uint64, error) {
	res, err := e.client.InvokeScript(ctx, script)
	if err != nil {
		return 0, err
	}
	if !res.Halted() {
		return 0, fmt.Errorf("%w: state %s: %s", ErrExecutionFault, res.State, res.Exception)
	}
	gas, err := strconv.ParseUint(res.GasConsumed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad gasconsumed %q: %w", res.GasConsumed, err)
	}
	e.log.Debug().Uint64("gas", gas).Int("script_size", len(script)).Msg("dry run halted")
	return gas, nil
}

// NetworkFee prices an unsigned transaction. It first asks the node via
// calculatenetworkfee; if the node rejects or lacks the method, it falls
// back to (size + witness estimate) × feePerByte.
func (e *Estimator) NetworkFee(ctx context.Context, tx *neo.Transaction) (uint64, error) {
	if fee, err := e.networkFeeFromNode(ctx, tx); err == nil {
		return fee, nil
	} else {
		e.log.Debug().Err(err).Msg("calculatenetworkfee unavailable, using size-based estimate")
	}
	return e.SizeBasedNetworkFee(len(tx.SerializeUnsigned()), len(tx.Signers)), nil
}

// SizeBasedNetworkFee computes (unsignedSize + per-signer witness
// estimate) × feePerByte. The unsigned size should be measured with the
// final fee fields in place; signing happens once afterwards, with no
// re-estimation loop.
func (e *Estimator) SizeBasedNetworkFee(unsignedSize, signers int) uint64 {
	return uint64(unsignedSize+signers*SingleSigWitnessSize) * e.feePerByte
}

func (e *Estimator) networkFeeFromNode(ctx context.Context, tx *neo.Transaction) (uint64, error) {
	// The node wants the full wire form; stub in empty witnesses so the
	// signer list determines the verification cost.
	probe := *tx
	probe.Witnesses = make([]neo.Witness, len(probe.Signers))
	raw, err := probe.Serialize()
	if err != nil {
		return 0, err
	}
	return e.client.CalculateNetworkFee(ctx, raw)
}
