package pools

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Strategy decodes one protocol's pool account layout.
type Strategy interface {
	Program() solana.PublicKey
	Protocol() types.Protocol
	// Verify reports whether payload is a pool of this protocol for lpMint.
	Verify(payload []byte, lpMint solana.PublicKey) bool
	// Decode extracts the pair. It is only called after Verify succeeded.
	Decode(payload []byte, lpMint solana.PublicKey) (a, b solana.PublicKey, err error)
}

// DefaultStrategies is the order strategies are tried in.
func DefaultStrategies() []Strategy {
	return []Strategy{Lifinity{}, MeteoraCpamm{}, PumpSwap{}}
}

// Hint is a pool account already known to the caller, e.g. a mint authority.
type Hint struct {
	Address solana.PublicKey
	Owner   solana.PublicKey
	Data    []byte
}

// Decoder runs strategies over discovered pool accounts.
type Decoder struct {
	discovery  *Discovery
	strategies []Strategy
}

func NewDecoder(client chain.Client, strategies ...Strategy) *Decoder {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Decoder{discovery: NewDiscovery(client), strategies: strategies}
}

// Resolve tries each strategy in order and returns the first validated pair.
// types.ErrNotFound means no strategy matched.
func (d *Decoder) Resolve(ctx context.Context, lpMint solana.PublicKey, hint *Hint) (*types.PoolRecord, error) {
	s := d.discovery.newScan(lpMint)
	for _, strategy := range d.strategies {
		log := types.LoggerFrom(ctx).WithFields(logrus.Fields{
			"stage":    "decoder",
			"protocol": strategy.Protocol(),
		})

		var candidate *types.PoolCandidate
		if hint != nil && hint.Owner.Equals(strategy.Program()) {
			candidate = &types.PoolCandidate{PoolAddress: hint.Address, OwnerProgramID: hint.Owner, Data: hint.Data}
		} else {
			var err error
			candidate, err = s.find(ctx, strategy.Program())
			if err != nil {
				if errors.Is(err, types.ErrCancelled) {
					return nil, err
				}
				types.LogFailure(ctx, "decoder", err)
				continue
			}
		}

		rec, err := Apply(strategy, candidate, lpMint)
		if err != nil {
			types.LogFailure(ctx, "decoder", err)
			continue
		}
		log.WithField("pool", candidate.PoolAddress).Debug("decoded pool pair")
		return rec, nil
	}
	return nil, fmt.Errorf("no pool decoder matched %s: %w", lpMint, types.ErrNotFound)
}

// Apply verifies, decodes and validates one candidate with one strategy.
func Apply(strategy Strategy, candidate *types.PoolCandidate, lpMint solana.PublicKey) (*types.PoolRecord, error) {
	if !candidate.OwnerProgramID.Equals(strategy.Program()) {
		return nil, fmt.Errorf("%w: %s is owned by %s", types.ErrWrongOwner, candidate.PoolAddress, candidate.OwnerProgramID)
	}
	if !strategy.Verify(candidate.Data, lpMint) {
		return nil, fmt.Errorf("%w: %s is not a %s pool for %s", types.ErrMalformed, candidate.PoolAddress, strategy.Protocol(), lpMint)
	}
	a, b, err := strategy.Decode(candidate.Data, lpMint)
	if err != nil {
		return nil, err
	}
	if err := types.ValidatePair(a, b); err != nil {
		return nil, err
	}

	pool := candidate.PoolAddress
	mint := lpMint
	return &types.PoolRecord{
		PoolAddress: &pool,
		ProgramID:   strategy.Program(),
		Protocol:    strategy.Protocol(),
		LPMint:      &mint,
		TokenA:      types.TokenRef{Address: a},
		TokenB:      types.TokenRef{Address: b},
	}, nil
}

func keyAt(payload []byte, off int) (solana.PublicKey, error) {
	if off < 0 || off+solana.PublicKeyLength > len(payload) {
		return solana.PublicKey{}, fmt.Errorf("%w: key at %d out of bounds (len=%d)", types.ErrMalformed, off, len(payload))
	}
	return solana.PublicKeyFromBytes(payload[off : off+solana.PublicKeyLength]), nil
}
