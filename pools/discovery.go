package pools

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

// SignatureLimit is how many recent signatures discovery looks at.
const SignatureLimit = 5

// Discovery finds an account owned by a given program among the accounts
// touched by a recent transaction of some address.
type Discovery struct {
	client chain.Client
}

func NewDiscovery(client chain.Client) *Discovery {
	return &Discovery{client: client}
}

// FindOwnedAccount returns the first account, in transaction key order, owned
// by program. types.ErrNotFound means nothing matched.
func (d *Discovery) FindOwnedAccount(ctx context.Context, address, program solana.PublicKey) (*types.PoolCandidate, error) {
	return d.newScan(address).find(ctx, program)
}

// scan memoizes one address's transaction keys and fetched accounts so
// several programs can be searched without refetching.
type scan struct {
	client  chain.Client
	address solana.PublicKey

	keys     solana.PublicKeySlice
	loaded   bool
	accounts map[solana.PublicKey]*chain.Account
	failed   map[solana.PublicKey]bool
}

func (d *Discovery) newScan(address solana.PublicKey) *scan {
	return &scan{
		client:   d.client,
		address:  address,
		accounts: map[solana.PublicKey]*chain.Account{},
		failed:   map[solana.PublicKey]bool{},
	}
}

func (s *scan) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	sigs, err := s.client.GetSignatures(ctx, s.address, SignatureLimit)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		s.loaded = true
		return nil
	}

	// prefer a successful transaction, else the oldest one returned
	picked := lo.FindOrElse(sigs, sigs[len(sigs)-1], func(sig chain.Signature) bool {
		return !sig.Failed
	})

	keys, err := s.client.GetTransactionAccountKeys(ctx, picked.Signature)
	if err != nil {
		return err
	}
	types.LoggerFrom(ctx).WithFields(logrus.Fields{
		"stage":     "discovery",
		"signature": picked.Signature,
		"keys":      len(keys),
	}).Debug("loaded transaction keys")

	s.keys = keys
	s.loaded = true
	return nil
}

func (s *scan) find(ctx context.Context, program solana.PublicKey) (*types.PoolCandidate, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	for _, key := range s.keys {
		if s.failed[key] {
			continue
		}
		acc, ok := s.accounts[key]
		if !ok {
			var err error
			acc, err = s.client.GetAccount(ctx, key)
			if err != nil {
				if errors.Is(err, types.ErrCancelled) {
					return nil, err
				}
				s.failed[key] = true
				continue
			}
			s.accounts[key] = acc
		}
		if acc.Owner.Equals(program) {
			return &types.PoolCandidate{
				PoolAddress:    key,
				OwnerProgramID: acc.Owner,
				Data:           acc.Data,
			}, nil
		}
	}
	return nil, fmt.Errorf("no account owned by %s near %s: %w", program, s.address, types.ErrNotFound)
}
