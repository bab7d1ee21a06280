// Package rpc is the JSON-RPC 2.0 client for a Neo N3 node.
package rpc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/rs/zerolog"
)

var (
	// ErrTransport covers connection failures and timeouts.
	ErrTransport = errors.New("rpc transport error")

	// ErrRPC covers JSON-RPC error objects returned by the node.
	ErrRPC = errors.New("rpc error")
)

const (
	defaultTimeout = 30 * time.Second
	readRetries    = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Client talks to a single Neo node endpoint. Read-only calls are retried
// with bounded backoff on transport failures; state-changing calls are
// never retried.
type Client struct {
	jsonrpc2.Client
	endpoint string
	log      zerolog.Logger
}

// New creates a client for endpoint with a mandatory per-call timeout.
// A zero timeout falls back to 30 seconds.
func New(endpoint string, timeout time.Duration, log zerolog.Logger) *Client {
	c := &Client{endpoint: endpoint, log: log}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.Timeout = timeout
	return c
}

// Endpoint returns the configured node URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}, retryable bool) error {
	attempts := 1
	if retryable {
		attempts = readRetries
	}
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			case <-time.After(retryBaseDelay << (i - 1)):
			}
			c.log.Debug().Str("method", method).Int("attempt", i+1).Msg("retrying rpc call")
		}
		err := c.Client.Request(ctx, c.endpoint, method, params, result)
		if err == nil {
			return nil
		}
		var rpcErr jsonrpc2.Error
		if errors.As(err, &rpcErr) {
			// The node answered; retrying cannot change the outcome.
			return fmt.Errorf("%w: %s (code %v)", ErrRPC, rpcErr.Message, rpcErr.Code)
		}
		last = fmt.Errorf("%w: %s: %v", ErrTransport, method, err)
	}
	return last
}

// BlockCount returns the current block height plus one.
func (c *Client) BlockCount(ctx context.Context) (uint32, error) {
	var count uint32
	if err := c.call(ctx, "getblockcount", []interface{}{}, &count, true); err != nil {
		return 0, err
	}
	return count, nil
}

// NEP17Balance is one asset entry from getnep17balances.
type NEP17Balance struct {
	AssetHash        string `json:"assethash"`
	Amount           string `json:"amount"`
	LastUpdatedBlock uint32 `json:"lastupdatedblock"`
}

// NEP17Balances is the getnep17balances result.
type NEP17Balances struct {
	Address  string         `json:"address"`
	Balances []NEP17Balance `json:"balance"`
}

// NEP17BalancesOf fetches all NEP-17 balances of an address.
func (c *Client) NEP17BalancesOf(ctx context.Context, address string) (*NEP17Balances, error) {
	res := new(NEP17Balances)
	if err := c.call(ctx, "getnep17balances", []interface{}{address}, res, true); err != nil {
		return nil, err
	}
	return res, nil
}

// GasBalance extracts the balance of the given asset hash (display form)
// from getnep17balances, in the asset's smallest unit.
func (c *Client) GasBalance(ctx context.Context, address, assetHash string) (uint64, error) {
	balances, err := c.NEP17BalancesOf(ctx, address)
	if err != nil {
		return 0, err
	}
	for _, b := range balances.Balances {
		if strings.EqualFold(b.AssetHash, assetHash) {
			var amount uint64
			if _, err := fmt.Sscanf(b.Amount, "%d", &amount); err != nil {
				return 0, fmt.Errorf("%w: bad balance amount %q", ErrRPC, b.Amount)
			}
			return amount, nil
		}
	}
	return 0, nil
}

// InvokeResult is the invokescript result.
type InvokeResult struct {
	Script      string `json:"script"`
	State       string `json:"state"`
	GasConsumed string `json:"gasconsumed"`
	Exception   string `json:"exception"`
}

// Halted reports whether execution finished in the HALT state.
func (r *InvokeResult) Halted() bool {
	return r.State == "HALT"
}

// InvokeScript dry-runs a script against the node's current state.
func (c *Client) InvokeScript(ctx context.Context, script []byte) (*InvokeResult, error) {
	res := new(InvokeResult)
	params := []interface{}{base64.StdEncoding.EncodeToString(script)}
	if err := c.call(ctx, "invokescript", params, res, true); err != nil {
		return nil, err
	}
	return res, nil
}

type networkFeeResult struct {
	NetworkFee string `json:"networkfee"`
}

// CalculateNetworkFee asks the node to price a serialized transaction.
// Not every node exposes the method; callers fall back to size-based
// estimation on error.
func (c *Client) CalculateNetworkFee(ctx context.Context, tx []byte) (uint64, error) {
	var res networkFeeResult
	params := []interface{}{base64.StdEncoding.EncodeToString(tx)}
	if err := c.call(ctx, "calculatenetworkfee", params, &res, true); err != nil {
		return 0, err
	}
	var fee uint64
	if _, err := fmt.Sscanf(res.NetworkFee, "%d", &fee); err != nil {
		return 0, fmt.Errorf("%w: bad network fee %q", ErrRPC, res.NetworkFee)
	}
	return fee, nil
}

type sendResult struct {
	Hash string `json:"hash"`
}

// SendRawTransaction submits a signed transaction. It is never retried:
// resubmitting risks duplicate transactions.
func (c *Client) SendRawTransaction(ctx context.Context, tx []byte) (string, error) {
	var res sendResult
	params := []interface{}{base64.StdEncoding.EncodeToString(tx)}
	if err := c.call(ctx, "sendrawtransaction", params, &res, false); err != nil {
		return "", err
	}
	return res.Hash, nil
}

// ContractState is the getcontractstate result, trimmed to the fields the
// pipeline reports on.
type ContractState struct {
	ID       int    `json:"id"`
	Hash     string `json:"hash"`
	Manifest struct {
		Name string `json:"name"`
	} `json:"manifest"`
}

// GetContractState looks up a deployed contract by script hash or name.
func (c *Client) GetContractState(ctx context.Context, hashOrName string) (*ContractState, error) {
	res := new(ContractState)
	if err := c.call(ctx, "getcontractstate", []interface{}{hashOrName}, res, true); err != nil {
		return nil, err
	}
	return res, nil
}

// Version is the getversion result, trimmed to the protocol settings the
// pipeline validates against.
type Version struct {
	UserAgent string `json:"useragent"`
	Protocol  struct {
		Network              uint32 `json:"network"`
		AddressVersion       byte   `json:"addressversion"`
		MillisecondsPerBlock int    `json:"msperblock"`
	} `json:"protocol"`
}

// GetVersion fetches the node's version and protocol configuration.
func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	res := new(Version)
	if err := c.call(ctx, "getversion", []interface{}{}, res, true); err != nil {
		return nil, err
	}
	return res, nil
}
