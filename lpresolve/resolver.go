package lpresolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/meteoraapi"
	"github.com/franco-bianco/solana-lp-resolver/pools"
	"github.com/franco-bianco/solana-lp-resolver/spltoken/metaplex"
	"github.com/franco-bianco/solana-lp-resolver/spltoken/mint"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

const SOURCE_MINT = "mint"

// PoolAPI resolves a pool pair from an off-chain index.
type PoolAPI interface {
	Resolve(ctx context.Context, address solana.PublicKey) (*types.PoolRecord, error)
}

// MetadataSource returns token metadata for a mint.
type MetadataSource interface {
	Resolve(ctx context.Context, mint solana.PublicKey) (*types.MetaplexMetadata, error)
}

// Resolver runs the fallback chain: mint inspection, on-chain pool decoding,
// the Meteora API, then Metaplex metadata. It holds no per-call state and is
// safe for concurrent use.
type Resolver struct {
	client    chain.Client
	inspector *mint.Inspector
	decoder   *pools.Decoder
	api       PoolAPI
	metadata  MetadataSource
	names     NameCache
	log       logrus.FieldLogger
}

type Option func(*Resolver)

func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithNameCache lets token symbol lookups reuse earlier answers.
func WithNameCache(c NameCache) Option {
	return func(r *Resolver) { r.names = c }
}

func WithPoolAPI(api PoolAPI) Option {
	return func(r *Resolver) { r.api = api }
}

func WithMetadataSource(m MetadataSource) Option {
	return func(r *Resolver) { r.metadata = m }
}

func WithStrategies(strategies ...pools.Strategy) Option {
	return func(r *Resolver) { r.decoder = pools.NewDecoder(r.client, strategies...) }
}

func New(client chain.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:    client,
		inspector: mint.NewInspector(client),
		decoder:   pools.NewDecoder(client),
		api:       meteoraapi.New("", ""),
		metadata:  metaplex.NewResolver(client),
		log:       types.LoggerFrom(context.Background()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig wires a resolver against live endpoints.
func NewFromConfig(cfg Config, opts ...Option) (*Resolver, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("%s is not set", EnvRPCURL)
	}
	var client chain.Client = chain.NewRPC(cfg.RPCURL).WithTimeout(cfg.Timeout)
	if cfg.RPCRetries > 0 {
		client = chain.NewRetrying(client, cfg.RPCRetries+1)
	}
	api := meteoraapi.New(cfg.DammURL, cfg.DlmmURL).WithHTTPClient(&http.Client{Timeout: cfg.Timeout})
	return New(client, append([]Option{WithPoolAPI(api)}, opts...)...), nil
}

// ResolveString parses address and resolves it. A malformed address is a
// caller error and is returned as such.
func (r *Resolver) ResolveString(ctx context.Context, address string) (*types.Resolution, error) {
	pk, err := types.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, pk), nil
}

// Resolve never returns a partially paired result: Pool is either nil or a
// validated pair. A cancelled context yields OUTCOME_CANCELLED.
func (r *Resolver) Resolve(ctx context.Context, address solana.PublicKey) *types.Resolution {
	log := r.log.WithFields(logrus.Fields{
		"resolution_id": uuid.NewString(),
		"address":       address,
	})
	ctx = types.WithLogger(ctx, log)

	res := &types.Resolution{Address: address, Outcome: types.OUTCOME_NOT_FOUND}
	cancelled := func() *types.Resolution {
		log.WithField("kind", "cancelled").Debug("resolution cancelled")
		return &types.Resolution{Address: address, Outcome: types.OUTCOME_CANCELLED}
	}

	// 1. the mint itself
	insp, err := r.inspector.Inspect(ctx, address)
	if err != nil {
		if isCancelled(ctx, err) {
			return cancelled()
		}
		types.LogFailure(ctx, "mint", err)
	} else {
		res.Mint = &insp.Mint
		res.IsLP = insp.IsLP
		if insp.Pool != nil {
			res.Pool = insp.Pool
		}
	}

	// 2. on-chain pool layouts
	if res.IsLP && res.Pool == nil {
		var hint *pools.Hint
		if insp.PoolAddress != nil {
			hint = &pools.Hint{Address: *insp.PoolAddress, Owner: insp.PoolOwner, Data: insp.PoolData}
		}
		rec, err := r.decoder.Resolve(ctx, address, hint)
		switch {
		case err == nil:
			res.Pool = rec
		case isCancelled(ctx, err):
			return cancelled()
		default:
			types.LogFailure(ctx, "decoder", err)
		}
	}

	// 3. off-chain index, also for addresses that are pools rather than mints
	if res.Pool == nil && r.api != nil {
		rec, err := r.api.Resolve(ctx, address)
		switch {
		case err == nil:
			if verr := rec.Validate(); verr != nil {
				types.LogFailure(ctx, "meteora_api", verr)
				break
			}
			res.Pool = rec
		case isCancelled(ctx, err):
			return cancelled()
		default:
			types.LogFailure(ctx, "meteora_api", err)
		}
	}

	// 4. metadata, independent of the pair
	if r.metadata != nil {
		md, err := r.metadata.Resolve(ctx, address)
		switch {
		case err == nil:
			res.Metadata = md
		case isCancelled(ctx, err):
			return cancelled()
		default:
			types.LogFailure(ctx, "metaplex", err)
		}
	}

	if res.Pool != nil {
		if err := r.fillSymbols(ctx, res.Pool); err != nil {
			return cancelled()
		}
	}
	if ctx.Err() != nil {
		return cancelled()
	}

	res.Display = display(res)
	res.Source = source(res)
	if res.Mint != nil || res.Pool != nil || res.Metadata != nil {
		res.Outcome = types.OUTCOME_RESOLVED
	}

	log.WithFields(logrus.Fields{
		"outcome": res.Outcome,
		"source":  res.Source,
		"is_lp":   res.IsLP,
	}).Info("resolved")
	return res
}

// fillSymbols looks up Metaplex symbols for pair tokens the pool source did
// not name. Only cancellation is reported.
func (r *Resolver) fillSymbols(ctx context.Context, pool *types.PoolRecord) error {
	if r.metadata == nil {
		return nil
	}
	for _, tok := range []*types.TokenRef{&pool.TokenA, &pool.TokenB} {
		if tok.Symbol != "" {
			continue
		}
		if n, ok := loadName(ctx, r.names, tok.Address); ok {
			tok.Symbol, tok.Name = n.Symbol, n.Name
			continue
		}
		md, err := r.metadata.Resolve(ctx, tok.Address)
		if err != nil {
			if isCancelled(ctx, err) {
				return err
			}
			types.LogFailure(ctx, "symbol", err)
			continue
		}
		tok.Symbol, tok.Name = md.Symbol, md.Name
		storeName(ctx, r.names, tok.Address, tokenName{Symbol: md.Symbol, Name: md.Name})
	}
	return nil
}

// display prefers Metaplex naming and falls back to a name built from the pair.
func display(res *types.Resolution) *types.Display {
	if md := res.Metadata; md != nil && md.Name != "" {
		return &types.Display{Name: md.Name, Symbol: md.Symbol}
	}
	if res.Pool != nil {
		return types.SynthesizeDisplay(res.Pool.TokenA, res.Pool.TokenB)
	}
	return nil
}

func source(res *types.Resolution) string {
	switch {
	case res.Pool != nil:
		return string(res.Pool.Protocol)
	case res.Metadata != nil:
		return types.SOURCE_METAPLEX
	default:
		return lo.Ternary(res.Mint != nil, SOURCE_MINT, "")
	}
}

func isCancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, types.ErrCancelled)
}
