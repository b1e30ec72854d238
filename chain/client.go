package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

// DefaultTimeout bounds every single upstream request.
const DefaultTimeout = 30 * time.Second

type Account struct {
	Owner    solana.PublicKey
	Data     []byte
	Lamports uint64
}

type Signature struct {
	Signature solana.Signature
	Failed    bool
}

// Client is the subset of the Solana JSON-RPC surface the resolver needs.
// GetAccount returns types.ErrNotFound when the account does not exist.
type Client interface {
	GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error)
	GetSignatures(ctx context.Context, address solana.PublicKey, limit int) ([]Signature, error)
	GetTransactionAccountKeys(ctx context.Context, sig solana.Signature) (solana.PublicKeySlice, error)
}

// RPC implements Client over a solana-go rpc.Client, one request per call.
type RPC struct {
	client  *rpc.Client
	timeout time.Duration
}

func NewRPC(endpoint string) *RPC {
	return NewRPCFromClient(rpc.New(endpoint))
}

func NewRPCFromClient(client *rpc.Client) *RPC {
	return &RPC{client: client, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-request timeout.
func (c *RPC) WithTimeout(d time.Duration) *RPC {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *RPC) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.GetAccountInfoWithOpts(callCtx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, classify(ctx, "getAccountInfo "+address.String(), err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("getAccountInfo %s: %w", address, types.ErrNotFound)
	}

	acc := &Account{
		Owner:    out.Value.Owner,
		Lamports: out.Value.Lamports,
	}
	if out.Value.Data != nil {
		acc.Data = out.Value.Data.GetBinary()
	}
	return acc, nil
}

func (c *RPC) GetSignatures(ctx context.Context, address solana.PublicKey, limit int) ([]Signature, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.GetSignaturesForAddressWithOpts(callCtx, address, &rpc.GetSignaturesForAddressOpts{
		Limit:      pointer.ToInt(limit),
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, classify(ctx, "getSignaturesForAddress "+address.String(), err)
	}

	sigs := make([]Signature, 0, len(out))
	for _, s := range out {
		if s == nil {
			continue
		}
		sigs = append(sigs, Signature{Signature: s.Signature, Failed: s.Err != nil})
	}
	return sigs, nil
}

func (c *RPC) GetTransactionAccountKeys(ctx context.Context, sig solana.Signature) (solana.PublicKeySlice, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.GetTransaction(callCtx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: pointer.ToUint64(0),
	})
	if err != nil {
		return nil, classify(ctx, "getTransaction "+sig.String(), err)
	}
	if out == nil || out.Transaction == nil {
		return nil, fmt.Errorf("getTransaction %s: %w", sig, types.ErrNotFound)
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get transaction: %w", types.ErrMalformed, err)
	}
	return AccountKeys(tx, out.Meta), nil
}

// AccountKeys lists static keys followed by loaded writable then loaded
// read-only addresses, the order instructions index into.
func AccountKeys(tx *solana.Transaction, meta *rpc.TransactionMeta) solana.PublicKeySlice {
	keys := make(solana.PublicKeySlice, 0, len(tx.Message.AccountKeys))
	keys = append(keys, tx.Message.AccountKeys...)
	if meta != nil {
		keys = append(keys, meta.LoadedAddresses.Writable...)
		keys = append(keys, meta.LoadedAddresses.ReadOnly...)
	}
	return keys
}

func classify(parent context.Context, op string, err error) error {
	switch {
	case parent.Err() != nil:
		return fmt.Errorf("%s: %w: %w", op, types.ErrCancelled, parent.Err())
	case errors.Is(err, rpc.ErrNotFound):
		return fmt.Errorf("%s: %w", op, types.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w: %w", op, types.ErrTransport, err)
	}
}
