// Package chaintest provides an in-memory chain.Client for tests.
package chaintest

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

type Fake struct {
	mu         sync.Mutex
	accounts   map[solana.PublicKey]*chain.Account
	signatures map[solana.PublicKey][]chain.Signature
	txKeys     map[solana.Signature]solana.PublicKeySlice
	errs       map[solana.PublicKey]error

	AccountCalls   []solana.PublicKey
	SignatureCalls []solana.PublicKey
	TxCalls        []solana.Signature
}

func New() *Fake {
	return &Fake{
		accounts:   map[solana.PublicKey]*chain.Account{},
		signatures: map[solana.PublicKey][]chain.Signature{},
		txKeys:     map[solana.Signature]solana.PublicKeySlice{},
		errs:       map[solana.PublicKey]error{},
	}
}

func (f *Fake) SetAccount(addr, owner solana.PublicKey, data []byte) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[addr] = &chain.Account{Owner: owner, Data: data, Lamports: 1}
	return f
}

// FailAccount makes every GetAccount for addr return err.
func (f *Fake) FailAccount(addr solana.PublicKey, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[addr] = err
	return f
}

func (f *Fake) SetSignatures(addr solana.PublicKey, sigs ...chain.Signature) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signatures[addr] = sigs
	return f
}

func (f *Fake) SetTransaction(sig solana.Signature, keys ...solana.PublicKey) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txKeys[sig] = keys
	return f
}

func (f *Fake) GetAccount(ctx context.Context, address solana.PublicKey) (*chain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AccountCalls = append(f.AccountCalls, address)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCancelled, err)
	}
	if err, ok := f.errs[address]; ok {
		return nil, err
	}
	acc, ok := f.accounts[address]
	if !ok {
		return nil, fmt.Errorf("getAccountInfo %s: %w", address, types.ErrNotFound)
	}
	cp := *acc
	cp.Data = append([]byte(nil), acc.Data...)
	return &cp, nil
}

func (f *Fake) GetSignatures(ctx context.Context, address solana.PublicKey, limit int) ([]chain.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignatureCalls = append(f.SignatureCalls, address)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCancelled, err)
	}
	sigs := f.signatures[address]
	if limit > 0 && len(sigs) > limit {
		sigs = sigs[:limit]
	}
	return append([]chain.Signature(nil), sigs...), nil
}

func (f *Fake) GetTransactionAccountKeys(ctx context.Context, sig solana.Signature) (solana.PublicKeySlice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TxCalls = append(f.TxCalls, sig)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCancelled, err)
	}
	keys, ok := f.txKeys[sig]
	if !ok {
		return nil, fmt.Errorf("getTransaction %s: %w", sig, types.ErrNotFound)
	}
	return append(solana.PublicKeySlice(nil), keys...), nil
}

// Key returns a deterministic, non-zero test key derived from n.
func Key(n byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = n + byte(i)*7 + 1
	}
	pk[0] = 0x80 | n
	return pk
}

// Sig returns a deterministic test signature derived from n.
func Sig(n byte) solana.Signature {
	var s solana.Signature
	for i := range s {
		s[i] = n ^ byte(i)
	}
	s[0] = 0x40 | n
	return s
}

var _ chain.Client = (*Fake)(nil)
