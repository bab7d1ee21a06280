// Package deploy sequences contract deployment: validation, script build,
// fee estimation, transaction assembly, signing and submission.
package deploy

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/r3e-network/neo-price-feed/neo"
	"github.com/r3e-network/neo-price-feed/neo/fees"
	"github.com/r3e-network/neo-price-feed/neo/rpc"
)

// State names one stage of the pipeline.
type State string

const (
	StateValidating       State = "Validating"
	StateScriptBuilt      State = "ScriptBuilt"
	StateFeeEstimated     State = "FeeEstimated"
	StateTransactionBuilt State = "TransactionBuilt"
	StateSigned           State = "Signed"
	StateSubmitted        State = "Submitted"
	StateFailed           State = "Failed"
)

// nefMagic is the 4-byte header of a compiled contract container.
var nefMagic = []byte("NEF3")

// feeFieldSlack pads the measured unsigned size for the network fee field
// itself, whose varint width is unknown until the fee is chosen.
const feeFieldSlack = 8

// Result reports a finished pipeline run. DryRun runs stop at
// FeeEstimated with an empty TxID.
type Result struct {
	State           State
	TxID            string
	Contract        string
	Sender          string
	SystemFee       uint64
	NetworkFee      uint64
	ValidUntilBlock uint32
	TxSize          int
}

// Deployer drives one deployment attempt at a time. It holds no key
// material between runs.
type Deployer struct {
	cfg    Config
	client *rpc.Client
	fees   *fees.Estimator
	store  *Store
	mgmt   neo.Uint160
	log    zerolog.Logger
}

// New creates a Deployer from an injected configuration.
func New(cfg Config, log zerolog.Logger) (*Deployer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	mgmt, err := neo.Uint160FromHex(cfg.ManagementContract)
	if err != nil {
		return nil, fmt.Errorf("%w: management contract: %v", ErrInvalidInput, err)
	}
	client := rpc.New(cfg.RPCEndpoint, cfg.RPCTimeout, log)
	return &Deployer{
		cfg:    cfg,
		client: client,
		fees:   fees.New(client, cfg.FeePerByte, log),
		mgmt:   mgmt,
		log:    log,
	}, nil
}

// SetStore attaches a record store; submitted deployments are recorded
// there best-effort.
func (d *Deployer) SetStore(s *Store) {
	d.store = s
}

// Client exposes the node client for read-only presentation queries.
func (d *Deployer) Client() *rpc.Client {
	return d.client
}

// ValidateNEF checks the compiled contract container magic. The payload
// is otherwise opaque.
func ValidateNEF(nef []byte) error {
	if !bytes.HasPrefix(nef, nefMagic) {
		return fmt.Errorf("%w: NEF header missing NEF3 magic", ErrInvalidInput)
	}
	return nil
}

// ValidateManifest parses the contract manifest and returns its name.
func ValidateManifest(manifest []byte) (string, error) {
	var m struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(manifest, &m); err != nil {
		return "", fmt.Errorf("%w: manifest: %v", ErrInvalidInput, err)
	}
	if m.Name == "" {
		return "", fmt.Errorf("%w: manifest has no name", ErrInvalidInput)
	}
	return m.Name, nil
}

// Deploy builds, prices, signs and submits the deployment transaction for
// the given NEF and manifest. Input format is checked before any node
// call; the WIF key lives only for the duration of the run.
func (d *Deployer) Deploy(ctx context.Context, wif string, nef, manifest []byte) (*Result, error) {
	if err := ValidateNEF(nef); err != nil {
		return nil, d.fail(StateValidating, err)
	}
	name, err := ValidateManifest(manifest)
	if err != nil {
		return nil, d.fail(StateValidating, err)
	}
	script, err := neo.BuildContractCall(d.mgmt, "deploy", nef, string(manifest))
	if err != nil {
		return nil, d.fail(StateScriptBuilt, err)
	}
	return d.run(ctx, wif, script, name)
}

// Invoke builds, prices, signs and submits an invocation of method on a
// deployed contract with the given typed arguments.
func (d *Deployer) Invoke(ctx context.Context, wif string, contract neo.Uint160, method string, args ...interface{}) (*Result, error) {
	script, err := neo.BuildContractCall(contract, method, args...)
	if err != nil {
		return nil, d.fail(StateScriptBuilt, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}
	return d.run(ctx, wif, script, contract.String()+"."+method)
}

func (d *Deployer) run(ctx context.Context, wif string, script []byte, label string) (*Result, error) {
	if d.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Deadline)
		defer cancel()
	}

	d.transition(StateValidating, label)
	key, err := neo.PrivateKeyFromWIF(wif)
	if err != nil {
		return nil, d.fail(StateValidating, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}
	defer key.Zero()
	sender := key.Address(d.cfg.AddressVersion)

	height, err := d.client.BlockCount(ctx)
	if err != nil {
		return nil, d.fail(StateValidating, fmt.Errorf("%w: %v", ErrUnreachable, err))
	}
	if ver, err := d.client.GetVersion(ctx); err != nil {
		d.log.Warn().Err(err).Msg("getversion failed, skipping magic check")
	} else if ver.Protocol.Network != 0 && ver.Protocol.Network != d.cfg.NetworkMagic {
		return nil, d.fail(StateValidating, fmt.Errorf("%w: node magic %d, configured %d",
			ErrInvalidInput, ver.Protocol.Network, d.cfg.NetworkMagic))
	}
	balance, err := d.client.GasBalance(ctx, sender, d.cfg.GasToken)
	if err != nil {
		return nil, d.fail(StateValidating, err)
	}
	if balance < d.cfg.MinimumBalance {
		return nil, d.fail(StateValidating, fmt.Errorf("%w: balance %d below minimum %d",
			ErrInsufficientFunds, balance, d.cfg.MinimumBalance))
	}

	d.transition(StateScriptBuilt, label)
	d.log.Debug().Int("script_size", len(script)).Msg("invocation script ready")

	d.transition(StateFeeEstimated, label)
	systemFee, err := d.fees.SystemFee(ctx, script)
	if err != nil {
		return nil, d.fail(StateFeeEstimated, err)
	}
	tx := &neo.Transaction{
		Version:         0,
		Nonce:           newNonce(),
		SystemFee:       systemFee,
		ValidUntilBlock: height + d.cfg.ValidUntilOffset,
		Signers: []neo.Signer{{
			Account: key.ScriptHash(),
			Scope:   neo.ScopeCalledByEntry,
		}},
		Script: script,
	}
	networkFee, err := d.fees.NetworkFee(ctx, tx)
	if err != nil {
		return nil, d.fail(StateFeeEstimated, err)
	}
	tx.NetworkFee = networkFee + uint64(feeFieldSlack)*d.cfg.FeePerByte

	if d.cfg.DryRun {
		d.log.Info().Uint64("system_fee", tx.SystemFee).Uint64("network_fee", tx.NetworkFee).
			Msg("dry run complete, not signing")
		return &Result{
			State:           StateFeeEstimated,
			Contract:        label,
			Sender:          sender,
			SystemFee:       tx.SystemFee,
			NetworkFee:      tx.NetworkFee,
			ValidUntilBlock: tx.ValidUntilBlock,
		}, nil
	}

	d.transition(StateTransactionBuilt, label)
	unsigned := tx.SerializeUnsigned()

	d.transition(StateSigned, label)
	sig, err := key.Sign(neo.SigningHash(d.cfg.NetworkMagic, unsigned))
	if err != nil {
		return nil, d.fail(StateSigned, err)
	}
	witness, err := neo.NewAccountWitness(sig, key.PublicKey())
	if err != nil {
		return nil, d.fail(StateSigned, err)
	}
	tx.Witnesses = []neo.Witness{witness}

	raw, err := tx.Serialize()
	if err != nil {
		return nil, d.fail(StateSigned, err)
	}

	d.transition(StateSubmitted, label)
	txid, err := d.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, d.fail(StateSubmitted, err)
	}
	if txid == "" {
		txid = tx.ID()
	}

	res := &Result{
		State:           StateSubmitted,
		TxID:            txid,
		Contract:        label,
		Sender:          sender,
		SystemFee:       tx.SystemFee,
		NetworkFee:      tx.NetworkFee,
		ValidUntilBlock: tx.ValidUntilBlock,
		TxSize:          len(raw),
	}
	d.record(res)
	d.log.Info().Str("txid", txid).Int("size", res.TxSize).Msg("transaction submitted")
	return res, nil
}

func (d *Deployer) transition(s State, label string) {
	d.log.Info().Str("state", string(s)).Str("target", label).Msg("pipeline state")
}

func (d *Deployer) fail(s State, err error) error {
	d.log.Error().Str("state", string(StateFailed)).Str("from", string(s)).Err(err).Msg("pipeline failed")
	return err
}

func (d *Deployer) record(res *Result) {
	if d.store == nil {
		return
	}
	if err := d.store.Put(NewRecord(res)); err != nil {
		d.log.Warn().Err(err).Str("txid", res.TxID).Msg("failed to record deployment")
	}
}

// newNonce draws a fresh random nonce. A rebuilt transaction always gets a
// new one.
func newNonce() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand is effectively infallible; the nonce only needs to
		// avoid hash collisions.
		panic(err)
	}
	return binary.LittleEndian.Uint32(b[:])
}
